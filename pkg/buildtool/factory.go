package buildtool

import (
	"github.com/sirupsen/logrus"
)

// Options selects and configures a Tool
type Options struct {
	Kind        Kind
	CMakeBin    string
	CTestBin    string
	Image       string
	MemoryLimit int64
	Logger      *logrus.Logger
}

// New creates the Tool selected by opts.Kind. An empty kind means cmake.
func New(opts Options) (Tool, error) {
	switch opts.Kind {
	case "", KindCMake:
		return NewCMakeTool(opts.CMakeBin, opts.CTestBin, opts.Logger), nil
	case KindDocker:
		return NewDockerTool(opts.Image, opts.MemoryLimit, opts.Logger)
	default:
		return nil, NewUnknownToolError(string(opts.Kind))
	}
}
