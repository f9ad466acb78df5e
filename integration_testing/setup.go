package integration_testing

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/2beens/gymtrainer/internal/config"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	serverPort  = 9100
	metricsPort = "9101"
	serverHost  = "localhost"

	dbName     = "gymtrainer"
	dbPassword = "postgres"
	planID     = "ppl-it"
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

// Suite holds the postgres and redis containers shared by all integration tests.
type Suite struct {
	DB           *sql.DB
	PostgresPort string
	RedisPort    string

	dockerPool *dockertest.Pool
	teardown   []func()
}

func newSuite() (_ *Suite) {
	var err error
	suite := &Suite{
		teardown: make([]func(), 0),
	}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	suite.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}

	// uses pool to try to connect to Docker
	if err = suite.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}

	suite.RedisPort, err = suite.redisSetup()
	if err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup redis: %s", err.Error())
	}

	suite.PostgresPort, err = suite.postgresSetup()
	if err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup postgres: %s", err)
	}

	return suite
}

func (s *Suite) cleanup() {
	if s.DB != nil {
		s.DB.Close()
	}
	for _, teardown := range s.teardown {
		teardown()
	}
}

func (s *Suite) testConfig() *config.Config {
	return &config.Config{
		Environment:           "development",
		LogLevel:              "debug",
		CatalogSource:         config.CatalogSourcePostgres,
		PlanID:                planID,
		PostgresHost:          "localhost",
		PostgresPort:          s.PostgresPort,
		PostgresDBName:        dbName,
		PostgresPassword:      dbPassword,
		CacheBackend:          config.CacheBackendRedis,
		CacheTTLSeconds:       60,
		RedisHost:             "localhost",
		RedisPort:             s.RedisPort,
		StatusEnabled:         true,
		Host:                  serverHost,
		Port:                  serverPort,
		PrometheusMetricsHost: serverHost,
		PrometheusMetricsPort: metricsPort,
		StatusRateLimitPerMin: 100,
		TickIntervalMs:        1000,
	}
}

func (s *Suite) redisSetup() (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Name:       "gymtrainer-redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		redisResource.Close()
	})

	return redisResource.GetPort("6379/tcp"), nil
}

func (s *Suite) postgresSetup() (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=" + dbPassword,
			"POSTGRES_DB=" + dbName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		pgResource.Close()
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres:%s@localhost:%s/%s?sslmode=disable", dbPassword, pgPort, dbName)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return "", fmt.Errorf("open db conn: %s", err)
	}
	s.DB = db

	// the container needs a moment before it accepts connections
	if err := s.dockerPool.Retry(db.Ping); err != nil {
		return "", fmt.Errorf("ping db: %s", err)
	}

	schema, err := os.ReadFile("../assets/schema.sql")
	if err != nil {
		return "", fmt.Errorf("read schema: %s", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		return "", fmt.Errorf("run schema script: %s", err)
	}

	res, err := db.Exec(seedSQL)
	if err != nil {
		return "", fmt.Errorf("run seed script: %s", err)
	}
	numRows, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("get rows affected: %s", err)
	}
	log.Printf("postgres setup result: %d\n", numRows)

	return pgPort, nil
}

const seedSQL = `
INSERT INTO training_plan (id, name, goal) VALUES ('ppl-it', 'Integration plan', 'strength');

INSERT INTO training_day (plan_id, id, name, position) VALUES
    ('ppl-it', 'push', 'Push', 1),
    ('ppl-it', 'legs', 'Legs', 2);

INSERT INTO exercise (id, name, body_part, equipment) VALUES
    ('bench-press', 'Bench press', 'chest', 'barbell'),
    ('dips', 'Dips', 'chest', 'bodyweight'),
    ('squat', 'Back squat', 'legs', 'barbell');

INSERT INTO training_day_exercise (plan_id, day_id, exercise_id, position, prescription) VALUES
    ('ppl-it', 'push', 'bench-press', 1,
     '[{"type":"NORMAL","sets":[{"reps":10,"weight":60,"restTimeSeconds":90},{"reps":8,"weight":65}]}]'),
    ('ppl-it', 'push', 'dips', 2, '[]'),
    ('ppl-it', 'legs', 'squat', 1,
     '[{"type":"PYRAMID_UP","notes":"warm up first","sets":[{"reps":10,"weight":80},{"reps":8,"weight":90},{"reps":6,"weight":100}]}]');
`
