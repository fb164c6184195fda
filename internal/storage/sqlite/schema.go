package sqlite

// schema holds the catalog's relational layout. New columns are added by
// out-of-band migration outside this module's scope; this is the
// bootstrap schema used by Open and by tests.
const schema = `
CREATE TABLE IF NOT EXISTS scopes (
	name TEXT PRIMARY KEY,
	account TEXT NOT NULL,
	vo TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS dids (
	scope TEXT NOT NULL,
	name TEXT NOT NULL,
	did_type TEXT NOT NULL,
	account TEXT NOT NULL,
	is_open INTEGER NOT NULL DEFAULT 1,
	monotonic INTEGER NOT NULL DEFAULT 0,
	expired_at TIMESTAMP,
	created_at TIMESTAMP NOT NULL,
	closed_at TIMESTAMP,
	accessed_at TIMESTAMP,
	access_cnt INTEGER NOT NULL DEFAULT 0,
	bytes INTEGER,
	length INTEGER,
	events INTEGER,
	md5 TEXT NOT NULL DEFAULT '',
	adler32 TEXT NOT NULL DEFAULT '',
	guid TEXT NOT NULL DEFAULT '',
	availability TEXT NOT NULL DEFAULT '',
	is_archive INTEGER NOT NULL DEFAULT 0,
	constituent INTEGER NOT NULL DEFAULT 0,
	is_new INTEGER NOT NULL DEFAULT 0,
	purge_replicas INTEGER,
	hidden INTEGER NOT NULL DEFAULT 0,
	obsolete INTEGER NOT NULL DEFAULT 0,
	complete INTEGER NOT NULL DEFAULT 0,
	suppressed INTEGER NOT NULL DEFAULT 0,
	extra TEXT NOT NULL DEFAULT '{}',
	PRIMARY KEY (scope, name)
);
CREATE INDEX IF NOT EXISTS idx_dids_expired_at ON dids(expired_at) WHERE expired_at IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_dids_is_new ON dids(is_new) WHERE is_new = 1;

CREATE TABLE IF NOT EXISTS associations (
	parent_scope TEXT NOT NULL,
	parent_name TEXT NOT NULL,
	child_scope TEXT NOT NULL,
	child_name TEXT NOT NULL,
	did_type TEXT NOT NULL,
	child_type TEXT NOT NULL,
	bytes INTEGER,
	adler32 TEXT NOT NULL DEFAULT '',
	md5 TEXT NOT NULL DEFAULT '',
	guid TEXT NOT NULL DEFAULT '',
	events INTEGER,
	rule_evaluation INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	PRIMARY KEY (parent_scope, parent_name, child_scope, child_name)
);
CREATE INDEX IF NOT EXISTS idx_assoc_child ON associations(child_scope, child_name);

CREATE TABLE IF NOT EXISTS archive_constituents (
	archive_scope TEXT NOT NULL,
	archive_name TEXT NOT NULL,
	file_scope TEXT NOT NULL,
	file_name TEXT NOT NULL,
	bytes INTEGER,
	adler32 TEXT NOT NULL DEFAULT '',
	md5 TEXT NOT NULL DEFAULT '',
	guid TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	PRIMARY KEY (archive_scope, archive_name, file_scope, file_name)
);

CREATE TABLE IF NOT EXISTS association_history (
	parent_scope TEXT NOT NULL,
	parent_name TEXT NOT NULL,
	child_scope TEXT NOT NULL,
	child_name TEXT NOT NULL,
	did_type TEXT NOT NULL,
	child_type TEXT NOT NULL,
	bytes INTEGER,
	events INTEGER,
	parent_created_at TIMESTAMP,
	deleted_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS deleted_dids (
	scope TEXT NOT NULL,
	name TEXT NOT NULL,
	did_type TEXT NOT NULL,
	account TEXT NOT NULL,
	created_at TIMESTAMP,
	deleted_at TIMESTAMP NOT NULL,
	bytes INTEGER,
	length INTEGER,
	events INTEGER,
	PRIMARY KEY (scope, name)
);

CREATE TABLE IF NOT EXISTS updated_dids (
	id TEXT PRIMARY KEY,
	scope TEXT NOT NULL,
	name TEXT NOT NULL,
	action TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS follows (
	scope TEXT NOT NULL,
	name TEXT NOT NULL,
	account TEXT NOT NULL,
	did_type TEXT NOT NULL,
	PRIMARY KEY (scope, name, account)
);

CREATE TABLE IF NOT EXISTS follow_events (
	id TEXT PRIMARY KEY,
	scope TEXT NOT NULL,
	name TEXT NOT NULL,
	account TEXT NOT NULL,
	did_type TEXT NOT NULL,
	event_type TEXT NOT NULL,
	payload TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_follow_events_account ON follow_events(account);

CREATE TABLE IF NOT EXISTS did_meta (
	scope TEXT NOT NULL,
	name TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (scope, name, key)
);
`
