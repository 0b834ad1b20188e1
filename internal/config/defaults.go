package config

const (
	defaultConfigPath       = "~/.config/prismrestore/config.toml"
	defaultStateDirFallback = "~/.local/share/prismrestore"
	defaultExiftoolBinary   = "exiftool"
	defaultRestoreTimeout   = 120
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"

	// BackendExiftoolCLI spawns one exiftool process per restored file.
	BackendExiftoolCLI = "exiftool-cli"
	// BackendExiftoolStayOpen keeps a single exiftool process alive for the run.
	BackendExiftoolStayOpen = "exiftool-stayopen"

	// CollisionWarn logs a destination collision and continues.
	CollisionWarn = "warn"
	// CollisionFail aborts the run on the first destination collision.
	CollisionFail = "fail"

	// NormalizationNone keeps destination names byte-for-byte.
	NormalizationNone = "none"
	// NormalizationNFC composes destination names to Unicode NFC.
	NormalizationNFC = "nfc"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir(),
		},
		Restore: Restore{
			Backend:         BackendExiftoolCLI,
			ExiftoolBinary:  defaultExiftoolBinary,
			TimeoutSeconds:  defaultRestoreTimeout,
			CollisionPolicy: CollisionWarn,
			VerifyCopies:    true,
			ReadExifSummary: true,
		},
		Output: Output{
			UnicodeNormalization: NormalizationNone,
		},
		Ledger: Ledger{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Progress: Progress{
			Enabled: true,
		},
	}
}
