package obs

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the shared structured logger. All diagnostic output
// goes to stderr so command output on stdout stays machine-readable.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.New(os.Stderr, "", 0)
	})
	return logger
}

// SetOutput redirects the shared logger, for tests.
func SetOutput(w io.Writer) {
	Logger().SetOutput(w)
}

// Event emits a structured JSON log line.
func Event(name string, fields map[string]any) {
	entry := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		entry[k] = v
	}
	entry["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["event"] = name
	data, err := json.Marshal(entry)
	if err != nil {
		Logger().Println(`{"event":"log.marshal.failed"}`)
		return
	}
	Logger().Println(string(data))
}
