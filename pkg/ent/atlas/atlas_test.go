package atlas_test

import (
	"database/sql"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/geofr/commatlas/pkg/ent/atlas"
	"github.com/geofr/commatlas/pkg/ent/dataset"
)

func present(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

// The region list deliberately carries one unpadded code; the join
// has to normalize it before any lookup.
func regions() []atlas.Region {
	return []atlas.Region{
		{Commune: "1", Name: "Premier"},
		{Commune: "00002", Name: "Deuxième"},
		{Commune: "00003", Name: "Troisième"},
	}
}

func waterInd() dataset.Indicator {
	acc := dataset.NewAccumulator(dataset.ColBacterio)
	acc.Add("00001", dataset.ColBacterio, 1)
	acc.Add("00002", dataset.ColBacterio, 0)
	return acc.Indicator()
}

func rentInd() dataset.Indicator {
	acc := dataset.NewAccumulator(dataset.ColMeanRent)
	acc.Add("00001", dataset.ColMeanRent, 11)
	return acc.Indicator()
}

var _ = Describe("Join", func() {
	It("keeps one row per region no matter what matched", func() {
		t, err := atlas.Join(regions(), waterInd(), rentInd())
		Expect(err).ToNot(HaveOccurred())
		Expect(t.Len()).To(Equal(3))
		Expect(t.Columns()).To(Equal(
			[]string{dataset.ColBacterio, dataset.ColMeanRent},
		))
	})

	It("normalizes keys on both sides", func() {
		t, err := atlas.Join(regions(), waterInd())
		Expect(err).ToNot(HaveOccurred())
		Expect(t.Value(0, dataset.ColBacterio)).To(Equal(present(1)))
	})

	It("fills unmatched rows with missing cells", func() {
		t, err := atlas.Join(regions(), rentInd())
		Expect(err).ToNot(HaveOccurred())
		Expect(t.Value(0, dataset.ColMeanRent)).To(Equal(present(11)))
		Expect(t.Value(1, dataset.ColMeanRent).Valid).To(BeFalse())
		Expect(t.Value(2, dataset.ColMeanRent).Valid).To(BeFalse())
	})

	It("gives the same cells for any indicator order", func() {
		a, err := atlas.Join(regions(), waterInd(), rentInd())
		Expect(err).ToNot(HaveOccurred())
		b, err := atlas.Join(regions(), rentInd(), waterInd())
		Expect(err).ToNot(HaveOccurred())

		for i := 0; i < a.Len(); i++ {
			for _, col := range a.Columns() {
				Expect(b.Value(i, col)).To(Equal(a.Value(i, col)))
			}
		}
	})

	It("rejects a column joined twice", func() {
		_, err := atlas.Join(regions(), waterInd(), waterInd())
		Expect(err).To(HaveOccurred())
	})

	It("drops no indicator row when the geometry misses its commune", func() {
		acc := dataset.NewAccumulator(dataset.ColBacterio)
		acc.Add("99999", dataset.ColBacterio, 1)
		t, err := atlas.Join(regions(), acc.Indicator())
		Expect(err).ToNot(HaveOccurred())
		Expect(t.Len()).To(Equal(3))
		for i := 0; i < t.Len(); i++ {
			Expect(t.Value(i, dataset.ColBacterio).Valid).To(BeFalse())
		}
	})
})

var _ = Describe("Table", func() {
	It("reads unknown columns as missing", func() {
		t, err := atlas.Join(regions(), waterInd())
		Expect(err).ToNot(HaveOccurred())
		Expect(t.Value(0, "no_such_column").Valid).To(BeFalse())

		_, ok := t.Column("no_such_column")
		Expect(ok).To(BeFalse())
	})

	It("reports the range over present cells only", func() {
		t, err := atlas.Join(regions(), rentInd(), waterInd())
		Expect(err).ToNot(HaveOccurred())

		min, max, ok := t.Range(dataset.ColMeanRent)
		Expect(ok).To(BeTrue())
		Expect(min).To(Equal(11.0))
		Expect(max).To(Equal(11.0))

		min, max, ok = t.Range(dataset.ColBacterio)
		Expect(ok).To(BeTrue())
		Expect(min).To(Equal(0.0))
		Expect(max).To(Equal(1.0))
	})

	It("reports no range for an all-missing column", func() {
		acc := dataset.NewAccumulator("empty")
		t, err := atlas.Join(regions(), acc.Indicator())
		Expect(err).ToNot(HaveOccurred())
		_, _, ok := t.Range("empty")
		Expect(ok).To(BeFalse())
	})
})
