// Package version хранит сведения о сборке.
package version

import "fmt"

// Значения подставляются при сборке через
// -ldflags "-X github.com/vladislavdragonenkov/elmorders/internal/version.version=..."
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GetVersion возвращает версию сборки; её отдаёт /healthz.
func GetVersion() string { return version }

// String собирает версию, коммит и дату сборки в одну строку для логов и -version.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}
