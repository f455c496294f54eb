package config

// Config is the top-level YAML structure: tunables plus the city catalog.
type Config struct {
	Version string      `yaml:"version"`
	Engine  EngineConf  `yaml:"engine"`
	Store   StoreConf   `yaml:"store"`
	Scoring ScoringConf `yaml:"scoring"`
	Cities  []CityDef   `yaml:"cities"`
	Routes  []RouteDef  `yaml:"routes"`
}

// EngineConf holds tunable concurrency settings.
type EngineConf struct {
	PlanWorkers   int `yaml:"plan_workers"`
	QueueDepth    int `yaml:"queue_depth"`
	PlanTimeoutMs int `yaml:"plan_timeout_ms"`
}

// StoreConf selects the GraphStore backend.
type StoreConf struct {
	Driver     string `yaml:"driver"` // "memory" (default) or "sqlite"
	SQLitePath string `yaml:"sqlite_path"`
	Seed       bool   `yaml:"seed"` // sqlite only: recreate tables from the catalog on open
}

// ScoringConf overrides the planner's search weights. An omitted field takes
// the default; an explicit 0 switches that term off.
type ScoringConf struct {
	RatingWeight    *int `yaml:"rating_weight"`
	PreferenceBonus *int `yaml:"preference_bonus"`
	DayEstimate     *int `yaml:"day_estimate"`
}

// CityDef is one destination of the catalog.
type CityDef struct {
	Name      string  `yaml:"name"`
	DailyCost int     `yaml:"daily_cost"`
	Rating    int     `yaml:"rating"`
	Category  string  `yaml:"category"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
}

// RouteDef is a directed travel edge between two catalog cities.
type RouteDef struct {
	From       string `yaml:"from"`
	To         string `yaml:"to"`
	TravelCost int    `yaml:"travel_cost"`
}

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)
