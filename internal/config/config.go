package config

// Config agrupa la configuración de ambos procesos (api y edge).
// Sin globals: se construye una vez en main y se pasa por referencia.
type Config struct {
	// Addr es la dirección de escucha del API HTTP, ej ":8080".
	Addr string `koanf:"addr"`

	// DatabaseURL es el DSN de Postgres. Vacío => repos in-memory (modo dev).
	DatabaseURL string `koanf:"database_url"`

	// BusURL es la URL del bus NATS que consume el proceso edge.
	BusURL string `koanf:"bus_url"`

	// LitterConfThreshold: conf por debajo del umbral => breach de confianza.
	LitterConfThreshold float64 `koanf:"litter_conf_threshold"`

	// LitterDurationThreshold: duration_s por encima del umbral (segundos) => breach de duración.
	LitterDurationThreshold float64 `koanf:"litter_duration_threshold"`

	// S3Bucket se usa para sintetizar las URLs de fotos (no hay backend real).
	S3Bucket string `koanf:"s3_bucket"`

	// SearchFixture es el path del JSON con candidatos pre-rankeados.
	SearchFixture string `koanf:"search_fixture"`

	// ScorerURL: si viene, la búsqueda delega en un scorer HTTP externo
	// en lugar del fixture local.
	ScorerURL string `koanf:"scorer_url"`

	// ContractsDir contiene openapi.yaml / asyncapi.yaml.
	ContractsDir string `koanf:"contracts_dir"`
}

// New devuelve los defaults del servicio.
func New() *Config {
	return &Config{
		Addr:                    ":8080",
		DatabaseURL:             "",
		BusURL:                  "nats://localhost:4222",
		LitterConfThreshold:     0.4,
		LitterDurationThreshold: 180,
		S3Bucket:                "pets-local",
		SearchFixture:           "fixtures/search_candidates.json",
		ContractsDir:            "contracts",
	}
}
