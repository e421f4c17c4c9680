// Package autoload initializes the global logger from the environment
// as a side effect of being imported.
package autoload

import (
	configx "github.com/ecomarket/support-agent/pkg/config"
	logx "github.com/ecomarket/support-agent/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
