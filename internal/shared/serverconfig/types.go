package serverconfig

type Config struct {
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	MongoDB MongoDBConfig `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL   MySQLConfig   `yaml:"mysql" mapstructure:"mysql"`
	Game    GameConfig    `yaml:"game" mapstructure:"game"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	Collection      string `yaml:"collection" mapstructure:"collection"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
	// 存档写入是单写者，连接池不用开太大
	MaxPool uint64 `yaml:"max_pool" mapstructure:"max_pool"`
	MinPool uint64 `yaml:"min_pool" mapstructure:"min_pool"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
}

// SaveBackend 决定存档写到哪里。
type SaveBackend string

const (
	SaveBackendMemory  SaveBackend = "memory"
	SaveBackendMongoDB SaveBackend = "mongodb"
	SaveBackendMySQL   SaveBackend = "mysql"
)

type GameConfig struct {
	GameID       string      `yaml:"game_id" mapstructure:"game_id"`
	Seed         int64       `yaml:"seed" mapstructure:"seed"`
	SaveBackend  SaveBackend `yaml:"save_backend" mapstructure:"save_backend"`
	FlushEveryMS int         `yaml:"flush_every_ms" mapstructure:"flush_every_ms"`
	Ruleset      string      `yaml:"ruleset" mapstructure:"ruleset"` // 规则表 json，空则用内置默认表
	// 新开局参数，只在没有存档时使用
	CivNames   []string `yaml:"civ_names" mapstructure:"civ_names"`
	HumanCiv   string   `yaml:"human_civ" mapstructure:"human_civ"`
	Difficulty string   `yaml:"difficulty" mapstructure:"difficulty"`
	MapRadius  int      `yaml:"map_radius" mapstructure:"map_radius"`
}
