package config

const (
	defaultOutputDir              = "~/.local/share/iiifgen/output"
	defaultMETSCacheDir           = "~/.local/share/iiifgen/cache/mets"
	defaultLedgerPath             = "~/.local/share/iiifgen/ledger.db"
	defaultLogDir                 = "~/.local/share/iiifgen/logs"
	defaultMETSBaseURL            = "https://service.archief.nl/gaf/api/mets/v1/"
	defaultMETSTimeoutSeconds     = 30
	defaultMETSRequestsPerSec     = 4.0
	defaultImageInfoTimeout       = 10
	defaultTextRepoTimeout        = 30
	defaultTextRepoRequestsPerSec = 8.0
	defaultRights                 = "https://creativecommons.org/publicdomain/mark/1.0/"
	defaultLanguage               = "en"
	defaultWorkers                = 1
	defaultServeBind              = "127.0.0.1:8182"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:    defaultOutputDir,
			METSCacheDir: defaultMETSCacheDir,
			LedgerPath:   defaultLedgerPath,
			LogDir:       defaultLogDir,
		},
		IIIF: IIIF{
			Rights:   defaultRights,
			Language: defaultLanguage,
		},
		METS: METS{
			BaseURL:           defaultMETSBaseURL,
			TimeoutSeconds:    defaultMETSTimeoutSeconds,
			RequestsPerSecond: defaultMETSRequestsPerSec,
		},
		ImageInfo: ImageInfo{
			TimeoutSeconds: defaultImageInfoTimeout,
		},
		TextRepo: TextRepo{
			TimeoutSeconds:    defaultTextRepoTimeout,
			RequestsPerSecond: defaultTextRepoRequestsPerSec,
		},
		Generate: Generate{
			Workers: defaultWorkers,
		},
		Serve: Serve{
			Bind: defaultServeBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
