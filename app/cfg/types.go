package cfg

const (
	CommandServe  = "serve"
	CommandImport = "import"
)

type Cfg struct {
	Command string

	// Site configuration
	Port           string
	BaseURL        string
	SiteTitle      string
	ArticlesDir    string
	CategoriesFile string
	DBPath         string
	Source         string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string

	Import ImportCfg
}

type ImportCfg struct {
	Feeds           []string
	FeedsDir        string
	FromDir         string
	DefaultCategory string
	FetchContent    bool
	Timeout         int // seconds
	Workers         int
}
