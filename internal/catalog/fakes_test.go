package catalog_test

import (
	"context"
	"time"

	"github.com/scicat/catalog/internal/collab"
	"github.com/scicat/catalog/internal/types"
)

// now is a test-local clock; production code's equivalent seam lives
// unexported inside the catalog package itself.
func now() time.Time { return time.Now().UTC() }

// recordingSink captures every emitted message instead of publishing it
// anywhere, so tests can assert which events a scenario produced without
// standing up eventbus/NATS.
type recordingSink struct {
	messages []collab.Message
}

func (r *recordingSink) Emit(ctx context.Context, msg collab.Message) error {
	r.messages = append(r.messages, msg)
	return nil
}

func (r *recordingSink) eventTypes() []string {
	out := make([]string, len(r.messages))
	for i, m := range r.messages {
		out[i] = m.EventType
	}
	return out
}

// fakeRuleEngine is a minimal in-memory RuleEngine stub for the Delete
// Engine's Phase A lock-threshold check.
type fakeRuleEngine struct {
	rules       map[types.DIDKey][]collab.Rule
	lockCounts  map[string]collab.RuleLockCounts
	softExpired []string
	deleted     []string
}

func newFakeRuleEngine() *fakeRuleEngine {
	return &fakeRuleEngine{
		rules:      map[types.DIDKey][]collab.Rule{},
		lockCounts: map[string]collab.RuleLockCounts{},
	}
}

func (f *fakeRuleEngine) FindRulesForDIDs(ctx context.Context, dids []types.DIDKey) ([]collab.Rule, error) {
	var out []collab.Rule
	for _, d := range dids {
		out = append(out, f.rules[d]...)
	}
	return out, nil
}

func (f *fakeRuleEngine) LockCounts(ctx context.Context, ruleID string) (collab.RuleLockCounts, error) {
	return f.lockCounts[ruleID], nil
}

func (f *fakeRuleEngine) SoftExpireRule(ctx context.Context, ruleID string) error {
	f.softExpired = append(f.softExpired, ruleID)
	return nil
}

func (f *fakeRuleEngine) DeleteRule(ctx context.Context, ruleID string, deleteParent, nowait bool) error {
	f.deleted = append(f.deleted, ruleID)
	return nil
}

func (f *fakeRuleEngine) GenerateNotifications(ctx context.Context, ruleID string) error { return nil }

// fakeMetadataPlugin is an in-memory MetadataPlugin.
type fakeMetadataPlugin struct {
	kv map[types.DIDKey]map[string]string
}

func newFakeMetadataPlugin() *fakeMetadataPlugin {
	return &fakeMetadataPlugin{kv: map[types.DIDKey]map[string]string{}}
}

func (f *fakeMetadataPlugin) Set(ctx context.Context, scope, name, key, value string) error {
	k := types.DIDKey{Scope: scope, Name: name}
	if f.kv[k] == nil {
		f.kv[k] = map[string]string{}
	}
	f.kv[k][key] = value
	return nil
}

func (f *fakeMetadataPlugin) SetBulk(ctx context.Context, scope, name string, kv map[string]string) error {
	k := types.DIDKey{Scope: scope, Name: name}
	if f.kv[k] == nil {
		f.kv[k] = map[string]string{}
	}
	for key, value := range kv {
		f.kv[k][key] = value
	}
	return nil
}

func (f *fakeMetadataPlugin) Get(ctx context.Context, scope, name string) (map[string]string, error) {
	return f.kv[types.DIDKey{Scope: scope, Name: name}], nil
}

func (f *fakeMetadataPlugin) Delete(ctx context.Context, scope, name, key string) error {
	delete(f.kv[types.DIDKey{Scope: scope, Name: name}], key)
	return nil
}

func (f *fakeMetadataPlugin) DeleteBulk(ctx context.Context, dids []types.DIDKey) error {
	for _, d := range dids {
		delete(f.kv, d)
	}
	return nil
}

// fakeAccountDirectory is a minimal AccountDirectory backed by a set of
// known accounts and email addresses.
type fakeAccountDirectory struct {
	accounts map[string]string
}

func newFakeAccountDirectory() *fakeAccountDirectory {
	return &fakeAccountDirectory{accounts: map[string]string{}}
}

func (f *fakeAccountDirectory) Exists(ctx context.Context, account string) (bool, error) {
	_, ok := f.accounts[account]
	return ok, nil
}

func (f *fakeAccountDirectory) HasVO(ctx context.Context, account, vo string) (bool, error) {
	return false, nil
}

func (f *fakeAccountDirectory) Email(ctx context.Context, account string) (string, error) {
	return f.accounts[account], nil
}

// fakeConfig is a map-backed collab.Config.
type fakeConfig struct {
	bools   map[string]bool
	ints    map[string]int
	strings map[string][]string
}

func newFakeConfig() *fakeConfig {
	return &fakeConfig{bools: map[string]bool{}, ints: map[string]int{}, strings: map[string][]string{}}
}

func (f *fakeConfig) GetBool(key string, def bool) bool {
	if v, ok := f.bools[key]; ok {
		return v
	}
	return def
}

func (f *fakeConfig) GetInt(key string, def int) int {
	if v, ok := f.ints[key]; ok {
		return v
	}
	return def
}

func (f *fakeConfig) GetStringSlice(key string) []string { return f.strings[key] }

// fakeOutboxSink is a minimal TransactionalMessageSink: Emit buffers
// against the outbox ctx carries, Flush moves the buffer into delivered,
// and Discard drops it, so session_test.go can assert RunInTransaction
// ties delivery to the wrapped transaction's outcome.
type fakeOutboxSink struct {
	delivered []collab.Message
	buffered  map[*int][]collab.Message
}

type outboxKey struct{}

func newFakeOutboxSink() *fakeOutboxSink {
	return &fakeOutboxSink{buffered: map[*int][]collab.Message{}}
}

func (f *fakeOutboxSink) NewOutboxContext(ctx context.Context) context.Context {
	slot := new(int)
	f.buffered[slot] = nil
	return context.WithValue(ctx, outboxKey{}, slot)
}

func (f *fakeOutboxSink) Emit(ctx context.Context, msg collab.Message) error {
	slot, _ := ctx.Value(outboxKey{}).(*int)
	if slot == nil {
		f.delivered = append(f.delivered, msg)
		return nil
	}
	f.buffered[slot] = append(f.buffered[slot], msg)
	return nil
}

func (f *fakeOutboxSink) Flush(ctx context.Context) error {
	slot, _ := ctx.Value(outboxKey{}).(*int)
	if slot == nil {
		return nil
	}
	f.delivered = append(f.delivered, f.buffered[slot]...)
	f.buffered[slot] = nil
	return nil
}

func (f *fakeOutboxSink) Discard(ctx context.Context) {
	slot, _ := ctx.Value(outboxKey{}).(*int)
	if slot != nil {
		f.buffered[slot] = nil
	}
}

var _ collab.MessageSink = (*recordingSink)(nil)
var _ collab.TransactionalMessageSink = (*fakeOutboxSink)(nil)
var _ collab.RuleEngine = (*fakeRuleEngine)(nil)
var _ collab.MetadataPlugin = (*fakeMetadataPlugin)(nil)
var _ collab.AccountDirectory = (*fakeAccountDirectory)(nil)
var _ collab.Config = (*fakeConfig)(nil)
