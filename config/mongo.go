package config

type Mongo struct {
	URI        string `env:"MONGO_URI"`
	Database   string `env:"MONGO_DATABASE" envDefault:"tryon"`
	Collection string `env:"MONGO_COLLECTION" envDefault:"attempts"`
}

func (m Mongo) Enabled() bool {
	return m.URI != ""
}
