package domain

import "time"

// Clock отдаёт текущее время; в тестах подменяется детерминированной
// реализацией.
type Clock interface {
	Now() time.Time
}

// IDGenerator выдаёт уникальные идентификаторы заказов и позиций.
type IDGenerator interface {
	NewID() string
}

// ClockFunc адаптирует функцию к интерфейсу Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// IDGeneratorFunc адаптирует функцию к интерфейсу IDGenerator.
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NewID() string { return f() }
