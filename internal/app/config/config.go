package config

type Config struct {
	RunAddress            string `env:"RUN_ADDRESS"`
	DatabaseURI           string `env:"DATABASE_URI"`
	OrdersSystemAddress   string `env:"ORDERS_SYSTEM_ADDRESS"`
	LedgerSystemAddress   string `env:"LEDGER_SYSTEM_ADDRESS"`
	SecretKey             string `env:"SECRET_KEY"`
	ClientTimeout         int    `env:"CLIENT_TIMEOUT"`
	MismatchTolerance     string `env:"MISMATCH_TOLERANCE"`
	DateLocale            string `env:"DATE_LOCALE"`
	IncludeCurrencySymbol bool   `env:"INCLUDE_CURRENCY_SYMBOL"`
}
