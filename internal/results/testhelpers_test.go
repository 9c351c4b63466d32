package results

import (
	"fmt"

	"github.com/tbourn/go-motormony/internal/domain"
)

func year(y int) *int { return &y }

func car(name string, score, price float64, y *int) domain.Vehicle {
	return domain.Vehicle{Name: name, FinalScore: score, PriceMinLakh: price, Year: y}
}

func names(vs []domain.Vehicle) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Name
	}
	return out
}

func fleet(n int) []domain.Vehicle {
	out := make([]domain.Vehicle, n)
	for i := range out {
		out[i] = car(fmt.Sprintf("car-%02d", i), 1-float64(i)/100, float64(5+i%7), year(2018+i%5))
	}
	return out
}
