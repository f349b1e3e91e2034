package depot

import (
	"github.com/rs/zerolog"
)

type Logger struct {
	*zerolog.Logger
}

func (_ *Logger) loadComponentIntoArrayLogger(c Component, bit uint32, arrayLogger *zerolog.Array) *zerolog.Array {
	dictLogger := zerolog.Dict()
	dictLogger = dictLogger.Uint32("component_id", bit)
	dictLogger = dictLogger.Str("component_name", c.typeName())
	return arrayLogger.Dict(dictLogger)
}

func (l *Logger) loadComponentsToEvent(zeroLoggerEvent *zerolog.Event, components []Component, w *World) *zerolog.Event {
	arrayLogger := zerolog.Arr()
	for _, c := range components {
		bit, _ := w.ComponentBit(c)
		arrayLogger = l.loadComponentIntoArrayLogger(c, bit, arrayLogger)
	}
	return zeroLoggerEvent.Array("components", arrayLogger)
}

// LogWorld logs the registered components and slot usage of w.
func (l *Logger) LogWorld(w *World, level zerolog.Level) {
	components := w.Components()
	zeroLoggerEvent := l.WithLevel(level)
	zeroLoggerEvent.Int("total_components", len(components))
	zeroLoggerEvent = l.loadComponentsToEvent(zeroLoggerEvent, components, w)
	zeroLoggerEvent.Int("total_slots", w.SlotCount())
	zeroLoggerEvent.Int("live_entities", w.EntityCount())
	zeroLoggerEvent.Send()
}

// LogEntity logs the components present on entity id.
func (l *Logger) LogEntity(w *World, level zerolog.Level, id int) {
	bits, err := w.PresenceMask(id)
	if err != nil {
		l.Err(err).Int("entity_id", id).Msg("failed to log entity")
		return
	}
	zeroLoggerEvent := l.WithLevel(level)
	zeroLoggerEvent = l.loadComponentsToEvent(zeroLoggerEvent, w.storage.componentsOf(id), w)
	zeroLoggerEvent.Int("entity_id", id)
	zeroLoggerEvent.Uint32("mask", bits)
	zeroLoggerEvent.Send()
}
