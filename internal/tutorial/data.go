// Package tutorial holds the data and image helpers behind the htmx tutorial
// demos.
package tutorial

import (
	"math"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
)

const ClientCount = 100

type Client struct {
	Name    string
	Age     int
	Email   string
	City    string
	Country string
	Phone   string
}

type Quote struct {
	Name   string
	Price  float64
	Change float64
}

// Faker wraps a gofakeit generator for concurrent use by handlers and the
// quote hub.
type Faker struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// NewFaker returns a generator seeded with seed; 0 picks a random seed.
func NewFaker(seed uint64) *Faker {
	return &Faker{faker: gofakeit.New(seed)}
}

func (f *Faker) Clients(n int) []Client {
	f.mu.Lock()
	defer f.mu.Unlock()

	clients := make([]Client, n)
	for i := range clients {
		clients[i] = Client{
			Name:    f.faker.Name(),
			Age:     f.faker.IntRange(18, 100),
			Email:   f.faker.Email(),
			City:    f.faker.City(),
			Country: f.faker.Country(),
			Phone:   f.faker.Phone(),
		}
	}
	return clients
}

func (f *Faker) Quote() Quote {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Quote{
		Name:   f.faker.Company(),
		Price:  round2(f.faker.Float64Range(1, 9999.99)),
		Change: round2(f.faker.Float64Range(-99.99, 99.99)),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
