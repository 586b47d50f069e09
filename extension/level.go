package extension

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/gdext/sys"
)

// Level is an initialization phase of the host, ordered from Core to Editor.
type Level uint8

const (
	LevelCore Level = iota
	LevelServers
	LevelScene
	LevelEditor
)

// Levels lists every level in initialization order.
var Levels = []Level{LevelCore, LevelServers, LevelScene, LevelEditor}

// LevelFromSys converts a host level. Unknown values are logged and treated
// as Scene.
func LevelFromSys(level sys.InitializationLevel) Level {
	switch level {
	case sys.InitializationCore:
		return LevelCore
	case sys.InitializationServers:
		return LevelServers
	case sys.InitializationScene:
		return LevelScene
	case sys.InitializationEditor:
		return LevelEditor
	default:
		Logger().Warn("unknown initialization level, using scene",
			zap.Uint32("level", uint32(level)))
		return LevelScene
	}
}

func (l Level) ToSys() sys.InitializationLevel {
	switch l {
	case LevelCore:
		return sys.InitializationCore
	case LevelServers:
		return sys.InitializationServers
	case LevelEditor:
		return sys.InitializationEditor
	default:
		return sys.InitializationScene
	}
}

func (l Level) String() string {
	switch l {
	case LevelCore:
		return "core"
	case LevelServers:
		return "servers"
	case LevelScene:
		return "scene"
	case LevelEditor:
		return "editor"
	default:
		return "level(" + strconv.Itoa(int(l)) + ")"
	}
}
