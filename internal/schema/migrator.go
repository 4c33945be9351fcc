package schema

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gearhouse/catalog/internal/db"
	"gearhouse/catalog/internal/logging"
	"gearhouse/catalog/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// Method values reported in MigrationResult, and the terminal states of one
// migration attempt.
const (
	MethodAlreadyDone = "already_done"
	MethodAuto        = "auto"
	MethodManual      = "manual"
	MethodFailed      = "failed"
)

// Result is the terminal outcome of applying one change. ManualRequired and
// Failed both carry the DDL so an operator can finish by hand.
type Result struct {
	Ok      bool
	Method  string
	Message string
	SQL     string
}

// Migrator applies additive schema changes through a priority-ordered list
// of execution channels and verifies the result by re-probing. Invoking it
// again for an applied change is a no-op: every statement is written in
// "if not exists" form and the capability check short-circuits first.
type Migrator struct {
	store db.Store
	probe *Probe
	mgmt  DDLExecutor   // nil when the management API is not configured
	redis *redis.Client // nil outside multi-instance deployments

	// ReloadDelay is how long to wait after the schema-reload notification
	// before trusting a re-probe. The query layer refreshes asynchronously.
	ReloadDelay time.Duration

	// Metrics is optional; tests leave it nil.
	Metrics *metrics.MetricsRegistry
}

func NewMigrator(store db.Store, probe *Probe, mgmt DDLExecutor, redisClient *redis.Client) *Migrator {
	return &Migrator{
		store:       store,
		probe:       probe,
		mgmt:        mgmt,
		redis:       redisClient,
		ReloadDelay: 2 * time.Second,
	}
}

// ManualSQL renders the change's DDL as one operator-pasteable script.
func ManualSQL(change Change) string {
	return strings.Join(change.DDL, ";\n") + ";"
}

func manualInstructions(change Change) string {
	return fmt.Sprintf(
		"Automated channels could not apply %q. Run the statements below against the database "+
			"with a role that may issue DDL, then re-invoke this migration to confirm.", change.ID)
}

// Apply runs one schema change to a terminal state.
func (m *Migrator) Apply(ctx context.Context, change Change) Result {
	res := m.apply(ctx, change)
	if m.Metrics != nil {
		m.Metrics.MigrationRunsTotal.WithLabelValues(change.ID, res.Method).Inc()
	}
	return res
}

func (m *Migrator) apply(ctx context.Context, change Change) Result {
	if m.probe.CapabilityExists(ctx, change.Table, change.Column) {
		return Result{
			Ok:      true,
			Method:  MethodAlreadyDone,
			Message: fmt.Sprintf("%s.%s already exists; nothing to do", change.Table, change.Column),
		}
	}

	applied := false
	for _, ch := range m.channels() {
		if err := m.runChannel(ctx, ch, change); err != nil {
			logging.Warn("migration channel failed, falling through",
				"change", change.ID,
				"channel", ch.name,
				"error", err.Error(),
			)
			continue
		}
		logging.Info("migration applied", "change", change.ID, "channel", ch.name)
		applied = true
		break
	}

	if !applied {
		// Expected terminal state on locked-down deployments, not an error.
		return Result{
			Ok:      false,
			Method:  MethodManual,
			Message: manualInstructions(change),
			SQL:     ManualSQL(change),
		}
	}

	m.requestSchemaReload(ctx)
	time.Sleep(m.ReloadDelay)
	m.probe.Invalidate()

	if m.probe.CapabilityExists(ctx, change.Table, change.Column) {
		return Result{
			Ok:      true,
			Method:  MethodAuto,
			Message: fmt.Sprintf("%s applied and confirmed", change.ID),
		}
	}

	return Result{
		Ok:      false,
		Method:  MethodFailed,
		Message: fmt.Sprintf("a channel accepted %q but the capability is still absent; apply manually and investigate", change.ID),
		SQL:     ManualSQL(change),
	}
}

type channel struct {
	name string
	run  func(ctx context.Context, ddl string) error
}

func (m *Migrator) channels() []channel {
	chs := []channel{
		{name: "db_function", run: m.store.ExecDDL},
	}
	if m.mgmt != nil {
		chs = append(chs, channel{name: "management_api", run: m.mgmt.ExecDDL})
	}
	return chs
}

func (m *Migrator) runChannel(ctx context.Context, ch channel, change Change) error {
	for _, stmt := range change.DDL {
		if err := ch.run(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// requestSchemaReload tells every query-layer schema cache to refresh: the
// database NOTIFY for the local query layer, and a Redis broadcast so peer
// instances drop their capability caches too.
func (m *Migrator) requestSchemaReload(ctx context.Context) {
	if err := m.store.NotifySchemaReload(ctx); err != nil {
		logging.Warn("schema reload notify failed", "error", err.Error())
	}
	if m.redis != nil {
		if err := m.redis.Publish(ctx, "schema_reload", "reload").Err(); err != nil {
			logging.Warn("schema reload broadcast failed", "error", err.Error())
		}
	}
}

// Status reports whether the change's capability is currently present.
func (m *Migrator) Status(ctx context.Context, change Change) bool {
	return m.probe.CapabilityExists(ctx, change.Table, change.Column)
}
