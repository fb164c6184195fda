package mysqldialect

// schema holds the catalog's relational layout for the MySQL-dialect
// backend (Dolt or plain MySQL/MariaDB server). Out-of-band migration
// owns later column additions; this is the bootstrap schema used by
// Open and by the testcontainers integration test.
const schema = `
CREATE TABLE IF NOT EXISTS scopes (
	name VARCHAR(255) PRIMARY KEY,
	account VARCHAR(255) NOT NULL,
	vo VARCHAR(255) NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS dids (
	scope VARCHAR(255) NOT NULL,
	name VARCHAR(767) NOT NULL,
	did_type VARCHAR(16) NOT NULL,
	account VARCHAR(255) NOT NULL,
	is_open TINYINT(1) NOT NULL DEFAULT 1,
	monotonic TINYINT(1) NOT NULL DEFAULT 0,
	expired_at DATETIME NULL,
	created_at DATETIME NOT NULL,
	closed_at DATETIME NULL,
	accessed_at DATETIME NULL,
	access_cnt BIGINT NOT NULL DEFAULT 0,
	bytes BIGINT NULL,
	length BIGINT NULL,
	events BIGINT NULL,
	md5 VARCHAR(64) NOT NULL DEFAULT '',
	adler32 VARCHAR(32) NOT NULL DEFAULT '',
	guid VARCHAR(64) NOT NULL DEFAULT '',
	availability VARCHAR(16) NOT NULL DEFAULT '',
	is_archive TINYINT(1) NOT NULL DEFAULT 0,
	constituent TINYINT(1) NOT NULL DEFAULT 0,
	is_new TINYINT(1) NOT NULL DEFAULT 0,
	purge_replicas TINYINT(1) NULL,
	hidden TINYINT(1) NOT NULL DEFAULT 0,
	obsolete TINYINT(1) NOT NULL DEFAULT 0,
	complete TINYINT(1) NOT NULL DEFAULT 0,
	suppressed TINYINT(1) NOT NULL DEFAULT 0,
	extra TEXT NOT NULL,
	PRIMARY KEY (scope, name),
	INDEX idx_dids_expired_at (expired_at),
	INDEX idx_dids_is_new (is_new)
);

CREATE TABLE IF NOT EXISTS associations (
	parent_scope VARCHAR(255) NOT NULL,
	parent_name VARCHAR(767) NOT NULL,
	child_scope VARCHAR(255) NOT NULL,
	child_name VARCHAR(767) NOT NULL,
	did_type VARCHAR(16) NOT NULL,
	child_type VARCHAR(16) NOT NULL,
	bytes BIGINT NULL,
	adler32 VARCHAR(32) NOT NULL DEFAULT '',
	md5 VARCHAR(64) NOT NULL DEFAULT '',
	guid VARCHAR(64) NOT NULL DEFAULT '',
	events BIGINT NULL,
	rule_evaluation TINYINT(1) NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	PRIMARY KEY (parent_scope, parent_name, child_scope, child_name),
	INDEX idx_assoc_child (child_scope, child_name)
);

CREATE TABLE IF NOT EXISTS archive_constituents (
	archive_scope VARCHAR(255) NOT NULL,
	archive_name VARCHAR(767) NOT NULL,
	file_scope VARCHAR(255) NOT NULL,
	file_name VARCHAR(767) NOT NULL,
	bytes BIGINT NULL,
	adler32 VARCHAR(32) NOT NULL DEFAULT '',
	md5 VARCHAR(64) NOT NULL DEFAULT '',
	guid VARCHAR(64) NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	PRIMARY KEY (archive_scope, archive_name, file_scope, file_name)
);

CREATE TABLE IF NOT EXISTS association_history (
	parent_scope VARCHAR(255) NOT NULL,
	parent_name VARCHAR(767) NOT NULL,
	child_scope VARCHAR(255) NOT NULL,
	child_name VARCHAR(767) NOT NULL,
	did_type VARCHAR(16) NOT NULL,
	child_type VARCHAR(16) NOT NULL,
	bytes BIGINT NULL,
	events BIGINT NULL,
	parent_created_at DATETIME NULL,
	deleted_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS deleted_dids (
	scope VARCHAR(255) NOT NULL,
	name VARCHAR(767) NOT NULL,
	did_type VARCHAR(16) NOT NULL,
	account VARCHAR(255) NOT NULL,
	created_at DATETIME NULL,
	deleted_at DATETIME NOT NULL,
	bytes BIGINT NULL,
	length BIGINT NULL,
	events BIGINT NULL,
	PRIMARY KEY (scope, name)
);

CREATE TABLE IF NOT EXISTS updated_dids (
	id VARCHAR(64) PRIMARY KEY,
	scope VARCHAR(255) NOT NULL,
	name VARCHAR(767) NOT NULL,
	action VARCHAR(16) NOT NULL
);

CREATE TABLE IF NOT EXISTS follows (
	scope VARCHAR(255) NOT NULL,
	name VARCHAR(767) NOT NULL,
	account VARCHAR(255) NOT NULL,
	did_type VARCHAR(16) NOT NULL,
	PRIMARY KEY (scope, name, account)
);

CREATE TABLE IF NOT EXISTS follow_events (
	id VARCHAR(64) PRIMARY KEY,
	scope VARCHAR(255) NOT NULL,
	name VARCHAR(767) NOT NULL,
	account VARCHAR(255) NOT NULL,
	did_type VARCHAR(16) NOT NULL,
	event_type VARCHAR(32) NOT NULL,
	payload TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	INDEX idx_follow_events_account (account)
);

CREATE TABLE IF NOT EXISTS did_meta (
	scope VARCHAR(255) NOT NULL,
	name VARCHAR(767) NOT NULL,
	meta_key VARCHAR(255) NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (scope, name, meta_key)
);
`
