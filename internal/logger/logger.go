package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// Standard output carries the diagnostic report, so the loggers only ever
// write to the log file. Until Init is called they discard everything.
var (
	Info  = log.New(io.Discard, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	Error = log.New(io.Discard, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
)

// Init points the loggers at logDir/todbc.log. An empty logDir leaves
// logging disabled. The returned closer releases the file.
func Init(logDir string) (io.Closer, error) {
	if logDir == "" {
		return io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, err
	}

	logFile, err := os.OpenFile(filepath.Join(logDir, "todbc.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}

	SetOutput(logFile)
	return logFile, nil
}

func SetOutput(w io.Writer) {
	Info.SetOutput(w)
	Error.SetOutput(w)
}
