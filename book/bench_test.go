package book_test

import (
	"math/rand"
	"testing"

	"fxlob/book"
	"fxlob/gen"
)

func BenchmarkIngest(b *testing.B) {
	orders, err := gen.GenOrders(gen.Request{
		Rand:         rand.New(rand.NewSource(42)),
		Count:        b.N,
		StartDate:    "2021-07-23",
		Days:         b.N/500 + 1,
		BuyProb:      0.5,
		Price:        100,
		PriceStdDev:  10,
		Volume:       10,
		VolumeStdDev: 3,
		Scale:        2,
	})
	if err != nil {
		b.Fatal(err)
	}

	bk := book.New()
	b.ReportAllocs()
	b.ResetTimer()

	for _, o := range orders {
		if err := bk.Ingest(o); err != nil {
			b.Fatal(err)
		}
	}
}
