package retention

import (
	"math"
	"sort"
	"time"
)

// DefaultIntervalDays é usado quando não há histórico suficiente para
// estimar a cadência do cliente.
const DefaultIntervalDays = 30

// AverageIntervalDays calcula o intervalo médio, em dias inteiros, entre
// visitas consecutivas. Com menos de duas visitas (ou média não positiva)
// retorna DefaultIntervalDays.
func AverageIntervalDays(visits []time.Time) int {
	if len(visits) < 2 {
		return DefaultIntervalDays
	}

	sorted := make([]time.Time, len(visits))
	copy(sorted, visits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})

	var total time.Duration
	for i := 1; i < len(sorted); i++ {
		total += sorted[i].Sub(sorted[i-1])
	}

	avg := total / time.Duration(len(sorted)-1)
	days := int(math.Round(avg.Hours() / 24))

	if days <= 0 {
		return DefaultIntervalDays
	}
	return days
}
