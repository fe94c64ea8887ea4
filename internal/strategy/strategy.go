package strategy

import (
	"fmt"
	"sort"

	"github.com/alejandrodnm/levswing/internal/application/engine"
	"github.com/alejandrodnm/levswing/internal/domain"
)

// Strategy define el contrato de un modo de simulación sobre una PriceTable.
// Cada estrategia encapsula sus propios parámetros.
type Strategy interface {
	// Name devuelve el identificador único de la estrategia ("baseline", "swing").
	Name() string

	// Run simula la estrategia sobre la tabla completa. Nunca falla: con datos
	// degenerados devuelve una curva vacía y estadísticas neutras.
	Run(table domain.PriceTable) engine.Result

	// Params devuelve los parámetros efectivos, para el histórico de ejecuciones.
	Params() domain.RunParams
}

// Registry mantiene las estrategias disponibles indexadas por nombre.
type Registry map[string]Strategy

// NewRegistry crea un registry con las estrategias dadas.
func NewRegistry(strategies ...Strategy) Registry {
	r := make(Registry, len(strategies))
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// Register añade una estrategia al registry.
func (r Registry) Register(s Strategy) {
	r[s.Name()] = s
}

// Get devuelve la estrategia por nombre.
func (r Registry) Get(name string) (Strategy, bool) {
	s, ok := r[name]
	return s, ok
}

// MustGet es Get con error descriptivo si el nombre no existe.
func (r Registry) MustGet(name string) (Strategy, error) {
	s, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("strategy: unknown %q (available: %v)", name, r.Names())
	}
	return s, nil
}

// Names devuelve los nombres registrados ordenados.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
