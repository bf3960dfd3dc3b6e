package logger

import (
	"go.uber.org/zap"
)

var sugar *zap.SugaredLogger

// Init builds the process-wide logger. Development environments get the
// human-readable console encoder, everything else gets production JSON.
func Init(environment string) {
	var log *zap.Logger
	var err error

	if environment == "development" {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		log = zap.NewNop()
	}

	sugar = log.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

func Info(msg string, keysAndValues ...any) {
	get().Infow(msg, normalize(keysAndValues)...)
}

func Warn(msg string, keysAndValues ...any) {
	get().Warnw(msg, normalize(keysAndValues)...)
}

func Error(msg string, keysAndValues ...any) {
	get().Errorw(msg, normalize(keysAndValues)...)
}

func Fatal(msg string, keysAndValues ...any) {
	get().Fatalw(msg, normalize(keysAndValues)...)
}

func get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development")
	}
	return sugar
}

// normalize tolerates call sites that pass a bare error or value instead of
// key/value pairs.
func normalize(args []any) []any {
	if len(args)%2 == 0 {
		return args
	}

	if err, ok := args[len(args)-1].(error); ok {
		return append(args[:len(args)-1], "error", err)
	}

	return append(args[:len(args)-1], "detail", args[len(args)-1])
}
