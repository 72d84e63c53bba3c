package config

import (
	"github.com/courtflow/progression/application"
	"github.com/courtflow/progression/codec"
	"github.com/courtflow/progression/hearing"
	"github.com/courtflow/progression/notice"
	"github.com/courtflow/progression/prosecutioncase"
	"github.com/courtflow/progression/register"
)

// Events returns a registry of the payloads of all progression events.
func Events() *codec.Registry {
	reg := codec.New()
	application.RegisterEvents(reg)
	hearing.RegisterEvents(reg)
	prosecutioncase.RegisterEvents(reg)
	register.RegisterEvents(reg)
	notice.RegisterEvents(reg)
	return reg
}

// Commands returns a registry of the payloads of all progression commands.
func Commands() *codec.Registry {
	reg := codec.New()
	application.RegisterCommands(reg)
	hearing.RegisterCommands(reg)
	prosecutioncase.RegisterCommands(reg)
	register.RegisterCommands(reg)
	notice.RegisterCommands(reg)
	return reg
}
