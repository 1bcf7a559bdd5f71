package dataset_test

import (
	"database/sql"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/geofr/commatlas/pkg/ent/commune"
	"github.com/geofr/commatlas/pkg/ent/dataset"
)

func present(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func water(code commune.Code, bacterio, chemical string) dataset.WaterSample {
	return dataset.WaterSample{
		Commune:     code,
		BacterioRaw: bacterio,
		ChemicalRaw: chemical,
		Bacterio:    dataset.EncodeConformity(bacterio),
		Chemical:    dataset.EncodeConformity(chemical),
	}
}

func rent(code commune.Code, cat string, v sql.NullFloat64) dataset.RentObservation {
	return dataset.RentObservation{Commune: code, Category: cat, RentPerM2: v}
}

var _ = Describe("EncodeConformity", func() {
	It("encodes the conformity code as binary", func() {
		Expect(dataset.EncodeConformity("C")).To(Equal(1))
		Expect(dataset.EncodeConformity("N")).To(Equal(0))
		Expect(dataset.EncodeConformity("D")).To(Equal(0))
	})

	It("treats a missing code as non-conform", func() {
		Expect(dataset.EncodeConformity("")).To(Equal(0))
	})

	It("is case sensitive", func() {
		Expect(dataset.EncodeConformity("c")).To(Equal(0))
	})
})

var _ = Describe("AggregateWater", func() {
	samples := func() []dataset.WaterSample {
		return []dataset.WaterSample{
			water("00001", "C", "C"),
			water("00001", "N", "C"),
			water("00002", "N", "N"),
		}
	}

	It("averages the binary encodings per commune", func() {
		ind := dataset.AggregateWater(samples())
		Expect(ind.Value("00001", dataset.ColBacterio)).To(Equal(present(0.5)))
		Expect(ind.Value("00001", dataset.ColChemical)).To(Equal(present(1)))
		Expect(ind.Value("00002", dataset.ColBacterio)).To(Equal(present(0)))
	})

	It("does not depend on row order", func() {
		ss := samples()
		rev := make([]dataset.WaterSample, len(ss))
		for i, s := range ss {
			rev[len(ss)-1-i] = s
		}

		a := dataset.AggregateWater(ss)
		b := dataset.AggregateWater(rev)
		Expect(b.Codes()).To(Equal(a.Codes()))
		for _, code := range a.Codes() {
			for _, col := range a.Columns() {
				Expect(b.Value(code, col)).To(Equal(a.Value(code, col)))
			}
		}
	})
})

var _ = Describe("AggregateRent", func() {
	It("averages all observations into one mean column", func() {
		obs := []dataset.RentObservation{
			rent("00001", "app", present(10)),
			rent("00001", "mai", present(12)),
			rent("00002", "app", present(8)),
		}
		ind := dataset.AggregateRent(obs)
		Expect(ind.Columns()).To(Equal([]string{dataset.ColMeanRent}))
		Expect(ind.Value("00001", dataset.ColMeanRent)).To(Equal(present(11)))
		Expect(ind.Value("00002", dataset.ColMeanRent)).To(Equal(present(8)))
	})

	It("keeps an all-missing commune as missing, not zero", func() {
		obs := []dataset.RentObservation{
			rent("00002", "app", sql.NullFloat64{}),
			rent("00002", "mai", sql.NullFloat64{}),
		}
		ind := dataset.AggregateRent(obs)
		Expect(ind.Codes()).To(ContainElement(commune.Code("00002")))
		Expect(ind.Value("00002", dataset.ColMeanRent).Valid).To(BeFalse())
	})

	It("skips missing cells in the mean's denominator", func() {
		obs := []dataset.RentObservation{
			rent("00001", "app", present(10)),
			rent("00001", "app3", sql.NullFloat64{}),
			rent("00001", "mai", present(14)),
		}
		ind := dataset.AggregateRent(obs)
		Expect(ind.Value("00001", dataset.ColMeanRent)).To(Equal(present(12)))
	})
})

var _ = Describe("AggregateRentByCategory", func() {
	It("splits means by housing category", func() {
		obs := []dataset.RentObservation{
			rent("00001", "app", present(10)),
			rent("00001", "app", present(14)),
			rent("00001", "mai", present(20)),
		}
		ind := dataset.AggregateRentByCategory(obs)
		Expect(ind.Columns()).To(Equal([]string{
			dataset.ColMeanRent + "_app",
			dataset.ColMeanRent + "_mai",
		}))
		Expect(
			ind.Value("00001", dataset.ColMeanRent+"_app"),
		).To(Equal(present(12)))
		Expect(
			ind.Value("00001", dataset.ColMeanRent+"_mai"),
		).To(Equal(present(20)))
	})

	It("keeps categories without data missing", func() {
		obs := []dataset.RentObservation{
			rent("00001", "app", present(10)),
			rent("00002", "mai", present(9)),
		}
		ind := dataset.AggregateRentByCategory(obs)
		Expect(
			ind.Value("00001", dataset.ColMeanRent+"_mai").Valid,
		).To(BeFalse())
		Expect(
			ind.Value("00002", dataset.ColMeanRent+"_app").Valid,
		).To(BeFalse())
	})
})

var _ = Describe("AggregatePopulation", func() {
	It("keys census counts by commune", func() {
		counts := []dataset.PopulationCount{
			{Commune: "00001", Population: present(100)},
			{Commune: "00002", Population: present(250)},
		}
		ind := dataset.AggregatePopulation(counts)
		Expect(ind.Value("00001", dataset.ColPopulation)).To(Equal(present(100)))
		Expect(ind.Value("00002", dataset.ColPopulation)).To(Equal(present(250)))
	})

	It("averages duplicate rows deterministically", func() {
		counts := []dataset.PopulationCount{
			{Commune: "00001", Population: present(100)},
			{Commune: "00001", Population: present(200)},
		}
		ind := dataset.AggregatePopulation(counts)
		Expect(ind.Value("00001", dataset.ColPopulation)).To(Equal(present(150)))
	})

	It("keeps a commune with an unreadable count as missing", func() {
		counts := []dataset.PopulationCount{
			{Commune: "00001", Population: sql.NullFloat64{}},
		}
		ind := dataset.AggregatePopulation(counts)
		Expect(ind.Codes()).To(Equal([]commune.Code{"00001"}))
		Expect(ind.Value("00001", dataset.ColPopulation).Valid).To(BeFalse())
	})
})

var _ = Describe("Indicator", func() {
	It("reads unknown communes and columns as missing", func() {
		ind := dataset.AggregateWater([]dataset.WaterSample{
			water("00001", "C", "C"),
		})
		Expect(ind.Value("99999", dataset.ColBacterio).Valid).To(BeFalse())
		Expect(ind.Value("00001", "no_such_column").Valid).To(BeFalse())
	})

	It("renames a column without touching the data", func() {
		acc := dataset.NewAccumulator("a", "b")
		acc.Add("00001", "a", 1)
		acc.Add("00001", "b", 2)
		ind := acc.Indicator().Renamed("a", "z")

		Expect(ind.Columns()).To(Equal([]string{"z", "b"}))
		Expect(ind.Value("00001", "z")).To(Equal(present(1)))
		Expect(ind.Value("00001", "b")).To(Equal(present(2)))
		Expect(ind.Value("00001", "a").Valid).To(BeFalse())
	})
})

var _ = Describe("Accumulator", func() {
	It("ignores unknown columns", func() {
		acc := dataset.NewAccumulator("a")
		acc.Add("00001", "b", 5)
		ind := acc.Indicator()
		Expect(ind.Value("00001", "a").Valid).To(BeFalse())
	})

	It("registers observed communes even without cells", func() {
		acc := dataset.NewAccumulator("a")
		acc.Observe("00001")
		ind := acc.Indicator()
		Expect(ind.Codes()).To(Equal([]commune.Code{"00001"}))
		Expect(ind.Value("00001", "a").Valid).To(BeFalse())
	})
})
