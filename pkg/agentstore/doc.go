/*
Package agentstore persists named checkpoints of agent state to a
relational database behind one uniform Store interface.

# Overview

An agent checkpoint is a JSON-serializable snapshot of whatever an agent
considers its state, saved under an agent id and a human-readable name,
optionally alongside the configuration that produced it. Checkpoints are
append-only: saving again under the same name creates a new row with a
new id, so earlier snapshots stay retrievable.

Three backends implement the same Store interface:
  - SQLiteStore: embedded, zero-setup, single file or in-memory
  - MySQLStore: shared server, go-sql-driver over database/sql
  - PostgresStore: shared server, pgx native connection pool

A MemoryStore is included for tests and development.

# Basic Usage

Open a store, ensure the schema, and save a checkpoint:

	store, err := agentstore.NewSQLiteStore("./checkpoints.db")
	if err != nil {
	    log.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
	    log.Fatal(err)
	}

	id, err := store.SaveCheckpoint(ctx, agentstore.Checkpoint{
	    AgentID:   "agent-7",
	    Name:      "after-planning",
	    State:     map[string]any{"step": 3, "plan": []string{"a", "b"}},
	    CreatedAt: time.Now().UnixMilli(),
	})
	if err != nil {
	    log.Fatal(err)
	}

	cp, ok, err := store.GetCheckpoint(ctx, id)
	if err != nil {
	    log.Fatal(err)
	}
	if ok {
	    fmt.Println(cp.Name, cp.State)
	}

Retrieval reports absence with ok=false and a nil error; a missing
checkpoint is an expected outcome, not a failure.

# Choosing a Backend at Runtime

The config and backend packages let deployments pick the engine from a
YAML/JSON file or environment variables:

	cfg, err := config.FromEnv()
	if err != nil {
	    log.Fatal(err)
	}
	store, err := backend.Open(ctx, cfg)

# Listing

ListCheckpoints returns lightweight metadata ordered newest first and
never reads the state or config columns, so browsing a store with large
snapshots stays cheap:

	infos, err := store.ListCheckpoints(ctx)
	for _, info := range infos {
	    fmt.Println(info.ID, info.AgentID, info.Name)
	}

# Errors

Failures carry their cause:
  - ConnectivityError: the database could not be reached or a statement failed
  - SerializationError: state or config could not be encoded as JSON
  - DeserializationError: a stored payload is not valid JSON

Use IsConnectivity, IsSerialization, and IsDeserialization (or errors.As)
to branch on them. Validation failures return the sentinel errors
ErrAgentIDRequired, ErrNameRequired, and ErrStateRequired.

# Observability

Stores accept options for structured logging, OpenTelemetry metrics,
and tracing:

	store, err := agentstore.NewPostgresStore(ctx, dsn,
	    agentstore.WithLogger(logger),
	    agentstore.WithMetrics(true),
	    agentstore.WithTracing(true),
	)

All observability is opt-in and defaults to no-ops.
*/
package agentstore
