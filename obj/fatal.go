package obj

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/wippyai/gdext/errors"
	"github.com/wippyai/gdext/sys"
)

// violation logs a fatal usage error and reports it to the host. The caller
// panics with the returned error.
func violation(op string, err *errors.Error) *errors.Error {
	Logger().Error("object contract violation",
		zap.String("op", op),
		zap.String("class", err.Class),
		zap.Uint64("instance", err.Instance),
		zap.Error(err))

	if sys.IsInitialized() {
		function, file, line := "", "", 0
		if pc, f, l, ok := runtime.Caller(2); ok {
			file, line = f, l
			if fn := runtime.FuncForPC(pc); fn != nil {
				function = fn.Name()
			}
		}
		sys.Host().PrintError(err.Error(), function, file, int32(line))
	}
	return err
}
