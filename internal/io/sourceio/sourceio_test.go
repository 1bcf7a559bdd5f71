package sourceio_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/geofr/commatlas/internal/io/sourceio"
	"github.com/geofr/commatlas/pkg/config"
	"github.com/geofr/commatlas/pkg/ent/commune"
	"github.com/twpayne/go-geom"
	"github.com/xuri/excelize/v2"
)

var tmpDir string

var _ = BeforeEach(func() {
	var err error
	tmpDir, err = os.MkdirTemp("", "sourceio")
	Expect(err).ToNot(HaveOccurred())
})

var _ = AfterEach(func() {
	Expect(os.RemoveAll(tmpDir)).To(Succeed())
})

func writeFile(name string, data []byte) string {
	path := filepath.Join(tmpDir, name)
	Expect(os.WriteFile(path, data, 0644)).To(Succeed())
	return path
}

var _ = Describe("Water", func() {
	// The nom column carries a Latin-1 byte, the fixed encoding of the
	// water-control files.
	waterData := []byte(
		"inseecommune,nom,plvconformitebacterio,plvconformitechimique\n" +
			"1,S\xe9vres,C,C\n" +
			"750,Marseille,N,C\n")

	It("concatenates rows with normalized keys and encoded codes", func() {
		path := writeFile("CAP_PLV_202411.txt", waterData)
		cfg := config.New(config.OptWaterFiles([]string{path}))
		ing := sourceio.New(cfg)

		samples, err := ing.Water()
		Expect(err).ToNot(HaveOccurred())
		Expect(samples).To(HaveLen(2))

		Expect(samples[0].Commune).To(Equal(commune.Code("00001")))
		Expect(samples[0].Bacterio).To(Equal(1))
		Expect(samples[0].Chemical).To(Equal(1))

		Expect(samples[1].Commune).To(Equal(commune.Code("00750")))
		Expect(samples[1].BacterioRaw).To(Equal("N"))
		Expect(samples[1].Bacterio).To(Equal(0))
		Expect(samples[1].Chemical).To(Equal(1))

		st := ing.Stats()
		Expect(st.Water.Rows).To(Equal(2))
		Expect(st.Water.Files).To(Equal(1))
	})

	It("loads several files into one slice", func() {
		p1 := writeFile("CAP_PLV_202411.txt", waterData)
		p2 := writeFile("TTP_PLV_202411.txt", waterData)
		cfg := config.New(config.OptWaterFiles([]string{p1, p2}))

		samples, err := sourceio.New(cfg).Water()
		Expect(err).ToNot(HaveOccurred())
		Expect(samples).To(HaveLen(4))
	})

	It("fails fast when a required column is absent", func() {
		path := writeFile("CAP_PLV_202411.txt",
			[]byte("inseecommune,plvconformitebacterio\n1,C\n"))
		cfg := config.New(config.OptWaterFiles([]string{path}))

		_, err := sourceio.New(cfg).Water()
		Expect(err).To(MatchError(sourceio.ErrMissingColumn))
	})

	It("fails when a file cannot be opened", func() {
		cfg := config.New(config.OptWaterFiles(
			[]string{filepath.Join(tmpDir, "no_such_file.txt")},
		))
		_, err := sourceio.New(cfg).Water()
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Rent", func() {
	It("reads decimal commas and coerces bad cells to missing", func() {
		path := writeFile("pred-app-mef-dhup.csv", []byte(
			"INSEE_C;nom;loypredm2\n"+
				"1;Sèvres;10,5\n"+
				"750;Marseille;abc\n"+
				"75056;Paris;\n"))
		cfg := config.New(config.OptRentFiles([]string{path}))
		ing := sourceio.New(cfg)

		obs, err := ing.Rent()
		Expect(err).ToNot(HaveOccurred())
		Expect(obs).To(HaveLen(3))

		Expect(obs[0].Commune).To(Equal(commune.Code("00001")))
		Expect(obs[0].Category).To(Equal("app"))
		Expect(obs[0].RentPerM2.Valid).To(BeTrue())
		Expect(obs[0].RentPerM2.Float64).To(Equal(10.5))

		Expect(obs[1].RentPerM2.Valid).To(BeFalse())
		Expect(obs[2].RentPerM2.Valid).To(BeFalse())

		st := ing.Stats()
		Expect(st.Rent.Rows).To(Equal(3))
		// The empty cell is plain missing data, only "abc" counts as
		// coerced.
		Expect(st.Rent.CoercedCells).To(Equal(1))
	})

	It("derives the housing category from the file name", func() {
		content := []byte("INSEE_C;loypredm2\n1;9,9\n")
		p1 := writeFile("pred-app12-mef-dhup.csv", content)
		p2 := writeFile("pred-mai-mef-dhup.csv", content)
		cfg := config.New(config.OptRentFiles([]string{p1, p2}))

		obs, err := sourceio.New(cfg).Rent()
		Expect(err).ToNot(HaveOccurred())
		Expect(obs[0].Category).To(Equal("app12"))
		Expect(obs[1].Category).To(Equal("mai"))
	})

	It("survives a byte-order mark in the header", func() {
		path := writeFile("pred-app-mef-dhup.csv",
			[]byte("\xef\xbb\xbfINSEE_C;loypredm2\n1;8,0\n"))
		cfg := config.New(config.OptRentFiles([]string{path}))

		obs, err := sourceio.New(cfg).Rent()
		Expect(err).ToNot(HaveOccurred())
		Expect(obs).To(HaveLen(1))
		Expect(obs[0].Commune).To(Equal(commune.Code("00001")))
	})

	It("fails fast when a required column is absent", func() {
		path := writeFile("pred-app-mef-dhup.csv",
			[]byte("INSEE_C;autre\n1;x\n"))
		cfg := config.New(config.OptRentFiles([]string{path}))

		_, err := sourceio.New(cfg).Rent()
		Expect(err).To(MatchError(sourceio.ErrMissingColumn))
	})
})

var _ = Describe("Population", func() {
	writeSheet := func(header []string, rows [][]any) string {
		f := excelize.NewFile()
		sheet := f.GetSheetName(0)
		for i, h := range header {
			cell, err := excelize.CoordinatesToCellName(i+1, 1)
			Expect(err).ToNot(HaveOccurred())
			Expect(f.SetCellValue(sheet, cell, h)).To(Succeed())
		}
		for r, row := range rows {
			for c, v := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+2)
				Expect(err).ToNot(HaveOccurred())
				Expect(f.SetCellValue(sheet, cell, v)).To(Succeed())
			}
		}
		path := filepath.Join(tmpDir, "population.xlsx")
		Expect(f.SaveAs(path)).To(Succeed())
		Expect(f.Close()).To(Succeed())
		return path
	}

	It("reads codes and counts from the first sheet", func() {
		path := writeSheet(
			[]string{"codgeo", "libgeo", "p21_pop"},
			[][]any{
				{"1", "Premier", 120},
				{"75056", "Paris", 2145906},
			},
		)
		cfg := config.New(config.OptPopulationFile(path))
		ing := sourceio.New(cfg)

		counts, err := ing.Population()
		Expect(err).ToNot(HaveOccurred())
		Expect(counts).To(HaveLen(2))
		Expect(counts[0].Commune).To(Equal(commune.Code("00001")))
		Expect(counts[0].Population.Float64).To(Equal(120.0))
		Expect(counts[1].Commune).To(Equal(commune.Code("75056")))
	})

	It("coerces unreadable counts to missing", func() {
		path := writeSheet(
			[]string{"codgeo", "p21_pop"},
			[][]any{{"2", "n/a"}},
		)
		cfg := config.New(config.OptPopulationFile(path))
		ing := sourceio.New(cfg)

		counts, err := ing.Population()
		Expect(err).ToNot(HaveOccurred())
		Expect(counts).To(HaveLen(1))
		Expect(counts[0].Population.Valid).To(BeFalse())
		Expect(ing.Stats().Population.CoercedCells).To(Equal(1))
	})

	It("fails fast when a required column is absent", func() {
		path := writeSheet([]string{"codgeo", "libgeo"}, [][]any{{"1", "x"}})
		cfg := config.New(config.OptPopulationFile(path))

		_, err := sourceio.New(cfg).Population()
		Expect(err).To(MatchError(sourceio.ErrMissingColumn))
	})

	It("skips the dataset when no file is configured", func() {
		cfg := config.New(config.OptPopulationFile(""))
		counts, err := sourceio.New(cfg).Population()
		Expect(err).ToNot(HaveOccurred())
		Expect(counts).To(BeNil())
	})
})

var _ = Describe("Regions", func() {
	geoData := []byte(`{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"codgeo": 1001, "libgeo": "L'Abergement"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[4.9,46.1],[4.95,46.1],[4.95,46.15],[4.9,46.1]]]
      }
    },
    {
      "type": "Feature",
      "properties": {"codgeo": "75056", "libgeo": "Paris"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[2.2,48.8],[2.4,48.8],[2.4,48.9],[2.2,48.8]]]
      }
    }
  ]
}`)

	It("normalizes numeric and string key properties alike", func() {
		path := writeFile("communes.json", geoData)
		cfg := config.New(config.OptGeometryFile(path))

		regions, err := sourceio.New(cfg).Regions()
		Expect(err).ToNot(HaveOccurred())
		Expect(regions).To(HaveLen(2))

		Expect(regions[0].Commune).To(Equal(commune.Code("01001")))
		Expect(regions[0].Name).To(Equal("L'Abergement"))
		Expect(regions[0].Boundary).To(BeAssignableToTypeOf(&geom.Polygon{}))

		Expect(regions[1].Commune).To(Equal(commune.Code("75056")))
	})

	It("fails fast when the key property is absent", func() {
		path := writeFile("communes.json", []byte(`{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"libgeo": "Sans code"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]
      }
    }
  ]
}`))
		cfg := config.New(config.OptGeometryFile(path))

		_, err := sourceio.New(cfg).Regions()
		Expect(err).To(MatchError(sourceio.ErrMissingColumn))
	})

	It("fails when the file cannot be read", func() {
		cfg := config.New(config.OptGeometryFile(
			filepath.Join(tmpDir, "no_such_file.json"),
		))
		_, err := sourceio.New(cfg).Regions()
		Expect(err).To(HaveOccurred())
	})
})
