package controllers

import (
	"github.com/hospitalshuttle/shuttle-booking/config"
	"github.com/hospitalshuttle/shuttle-booking/services"
)

var (
	cfg  *config.Config
	line *services.LineService
)

// Setup wires the loaded config and LINE client into the handler package.
// Called once from main before routes are registered.
func Setup(c *config.Config, l *services.LineService) {
	cfg = c
	line = l
}
