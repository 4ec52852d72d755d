package advect_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gridflow/internal/advect"
	"github.com/san-kum/gridflow/internal/grid"
)

func newEngine(width, cellDim int, mutate func(*advect.Options)) (*grid.Grid, *advect.Engine) {
	g, err := grid.New(width, cellDim)
	Expect(err).NotTo(HaveOccurred())
	opts := advect.DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	e, err := advect.New(g, opts)
	Expect(err).NotTo(HaveOccurred())
	return g, e
}

// seedVelocities fills the addressable cells with a deterministic pattern
// of small integer and half-integer velocities.
func seedVelocities(g *grid.Grid) {
	n := g.CellsPerSide()
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			g.VelocityX.Set(row, col, float64((row*7+col*3)%5-2)*0.5)
			g.VelocityY.Set(row, col, float64((row*5+col*11)%7-3)*0.5)
		}
	}
}

var _ = Describe("Engine", func() {
	Describe("New", func() {
		It("rejects a nil grid", func() {
			_, err := advect.New(nil, advect.DefaultOptions())
			Expect(err).To(HaveOccurred())
		})

		It("rejects a non-finite time step", func() {
			g, err := grid.New(4, 1)
			Expect(err).NotTo(HaveOccurred())
			opts := advect.DefaultOptions()
			opts.TimeStep = math.Inf(1)
			_, err = advect.New(g, opts)
			Expect(err).To(HaveOccurred())
		})

		It("rejects unknown clamp policies", func() {
			g, err := grid.New(4, 1)
			Expect(err).NotTo(HaveOccurred())
			opts := advect.DefaultOptions()
			opts.Policy = advect.ClampPolicy(7)
			_, err = advect.New(g, opts)
			Expect(err).To(MatchError(ContainSubstring("ClampPolicy(7)")))
		})

		It("clamps workers to at least one", func() {
			_, e := newEngine(4, 1, func(o *advect.Options) { o.Workers = 0 })
			Expect(e.Options().Workers).To(Equal(1))
		})
	})

	Describe("SetTimeStep", func() {
		It("accepts finite values and rejects the rest", func() {
			_, e := newEngine(4, 1, nil)
			Expect(e.SetTimeStep(0.5)).To(Succeed())
			Expect(e.Options().TimeStep).To(Equal(0.5))

			Expect(e.SetTimeStep(math.NaN())).NotTo(Succeed())
			Expect(e.Options().TimeStep).To(Equal(0.5))
		})
	})

	Describe("zero velocity", func() {
		It("is a fixed point of repeated steps", func() {
			g, e := newEngine(6, 1, func(o *advect.Options) { o.AdvectColor = true })
			g.Color.Set(2, 3, grid.White)
			g.Pressure.Set(1, 1, 0.25)
			before := g.Clone()

			for i := 0; i < 5; i++ {
				e.Step()
			}

			Expect(g.VelocityX.Data()).To(Equal(before.VelocityX.Data()))
			Expect(g.VelocityY.Data()).To(Equal(before.VelocityY.Data()))
			Expect(g.Color.Data()).To(Equal(before.Color.Data()))
			Expect(g.Pressure.Data()).To(Equal(before.Pressure.Data()))
			Expect(e.Steps()).To(Equal(5))
		})
	})

	Describe("Trace", func() {
		It("rounds half away from zero before dividing", func() {
			g, e := newEngine(8, 1, nil)
			g.VelocityY.Set(3, 3, 0.5)
			g.VelocityX.Set(3, 3, -0.5)
			e.AdvectField(g.Pressure)

			// 3.5 -> 4 and 2.5 -> 3
			r, c, ok := e.Trace(3, 3, 1)
			Expect(ok).To(BeTrue())
			Expect(r).To(Equal(4))
			Expect(c).To(Equal(3))

			r, c, ok = e.Trace(3, 3, -1)
			Expect(ok).To(BeTrue())
			Expect(r).To(Equal(3))
			Expect(c).To(Equal(4))
		})

		It("maps pixels to cells with truncating division", func() {
			g, e := newEngine(8, 2, nil)
			g.VelocityY.Set(0, 0, 1)
			e.AdvectField(g.Pressure)

			// anchor pixel row 1, displaced by -2 to pixel -1, truncates to cell 0
			r, c, ok := e.Trace(0, 0, -1)
			Expect(ok).To(BeTrue())
			Expect(r).To(Equal(0))
			Expect(c).To(Equal(0))

			r, _, ok = e.Trace(0, 0, 1)
			Expect(ok).To(BeTrue())
			Expect(r).To(Equal(1))
		})

		It("reports the padding row as out of bounds", func() {
			g, e := newEngine(4, 1, nil)
			g.VelocityY.Set(3, 0, 1)
			e.AdvectField(g.Pressure)

			_, _, ok := e.Trace(3, 0, 1)
			Expect(ok).To(BeFalse())
		})

		It("treats non-finite velocities as leaving the grid", func() {
			g, e := newEngine(4, 1, nil)
			g.VelocityX.Set(1, 1, math.NaN())
			g.VelocityY.Set(2, 2, math.Inf(-1))
			e.AdvectField(g.Pressure)

			_, _, ok := e.Trace(1, 1, 1)
			Expect(ok).To(BeFalse())
			_, _, ok = e.Trace(2, 2, -1)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Step", func() {
		It("keeps a lone velocity whose traces both leave the grid", func() {
			g, e := newEngine(4, 1, nil)
			g.VelocityY.Set(1, 1, 4.0)

			e.Step()

			Expect(g.VelocityY.At(1, 1)).To(Equal(4.0))
			Expect(g.VelocityX.At(1, 1)).To(BeZero())
			for row := 0; row < 4; row++ {
				for col := 0; col < 4; col++ {
					if row == 1 && col == 1 {
						continue
					}
					Expect(g.Moving(row, col)).To(BeFalse(), "cell %d,%d", row, col)
				}
			}
		})

		It("keeps a forward write where the backward trace leaves the grid", func() {
			g, e := newEngine(4, 1, nil)
			g.VelocityY.Set(2, 0, 1)
			g.VelocityY.Set(3, 0, 4)

			e.Step()

			Expect(g.VelocityY.At(3, 0)).To(Equal(1.0))
			Expect(g.VelocityY.At(2, 0)).To(BeZero())
		})

		It("lets the backward pass overwrite forward results", func() {
			g, e := newEngine(4, 1, nil)
			g.VelocityY.Set(0, 0, 1)

			e.Step()

			// (0,0) traces forward into (1,0), but (1,0) ends with its own snapshot.
			Expect(g.VelocityY.At(1, 0)).To(BeZero())
			Expect(g.VelocityY.At(0, 0)).To(Equal(1.0))
		})

		It("transports a uniform column without loss", func() {
			g, e := newEngine(4, 1, nil)
			for row := 0; row < 4; row++ {
				g.VelocityY.Set(row, 2, 1)
			}

			e.Step()

			for row := 0; row < 4; row++ {
				Expect(g.VelocityY.At(row, 2)).To(Equal(1.0))
			}
		})

		It("gathers the pre-step value wherever the backward source is in bounds", func() {
			g, e := newEngine(10, 1, nil)
			seedVelocities(g)
			pre := g.Clone()

			e.Step()

			n := g.CellsPerSide()
			checked := 0
			for row := 0; row < n; row++ {
				for col := 0; col < n; col++ {
					sr := int(math.Round(float64(row) - pre.VelocityY.At(row, col)))
					sc := int(math.Round(float64(col) - pre.VelocityX.At(row, col)))
					if !pre.InBounds(sr, sc) {
						continue
					}
					checked++
					Expect(g.VelocityX.At(row, col)).To(Equal(pre.VelocityX.At(sr, sc)))
					Expect(g.VelocityY.At(row, col)).To(Equal(pre.VelocityY.At(sr, sc)))
				}
			}
			Expect(checked).To(BeNumerically(">", 0))
		})

		It("never touches the padding row and column", func() {
			g, e := newEngine(6, 1, nil)
			seedVelocities(g)
			n := g.CellsPerSide()
			g.VelocityX.Set(n, 2, 9)
			g.VelocityY.Set(2, n, -9)

			e.Step()

			Expect(g.VelocityX.At(n, 2)).To(Equal(9.0))
			Expect(g.VelocityY.At(2, n)).To(Equal(-9.0))
		})

		It("leaves color alone unless color advection is enabled", func() {
			g, e := newEngine(4, 1, nil)
			g.VelocityY.Set(2, 0, 1)
			g.VelocityY.Set(3, 0, 4)
			g.Color.Set(2, 0, grid.White)

			e.Step()
			Expect(g.Color.At(3, 0)).To(Equal(grid.Background))

			g.Reset()
			g.VelocityY.Set(2, 0, 1)
			g.VelocityY.Set(3, 0, 4)
			g.Color.Set(2, 0, grid.White)
			e.SetAdvectColor(true)

			e.Step()
			Expect(g.Color.At(3, 0)).To(Equal(grid.White))
			Expect(g.Color.At(2, 0)).To(Equal(grid.Background))
		})

		It("traces every field with the step-start velocity", func() {
			g, e := newEngine(4, 1, func(o *advect.Options) { o.AdvectColor = true })
			g.VelocityY.Set(2, 0, 1)
			g.VelocityY.Set(3, 0, 4)
			g.Color.Set(2, 0, grid.White)

			e.Step()

			// velocityY already moved before color advection, yet color
			// follows the same displacement as velocity did.
			Expect(g.Color.At(3, 0)).To(Equal(grid.White))
			Expect(g.TraceY.At(3, 0)).To(Equal(4.0))
		})

		It("scales displacement by the time step", func() {
			g, e := newEngine(8, 1, func(o *advect.Options) { o.TimeStep = 2 })
			for row := 0; row < 8; row++ {
				g.VelocityY.Set(row, 0, 1)
			}
			g.Color.Set(3, 0, grid.White)

			e.AdvectColor()

			Expect(g.Color.At(5, 0)).To(Equal(grid.White))
		})

		It("produces identical results with parallel backward passes", func() {
			serial, se := newEngine(16, 1, nil)
			parallel, pe := newEngine(16, 1, func(o *advect.Options) { o.Workers = 4 })
			seedVelocities(serial)
			seedVelocities(parallel)

			for i := 0; i < 3; i++ {
				se.Step()
				pe.Step()
			}

			Expect(parallel.VelocityX.Data()).To(Equal(serial.VelocityX.Data()))
			Expect(parallel.VelocityY.Data()).To(Equal(serial.VelocityY.Data()))
		})
	})
})

var _ = Describe("ParallelFor", func() {
	It("covers every index exactly once", func() {
		for _, workers := range []int{1, 2, 3, 8, 20} {
			hits := make([]int, 10)
			advect.ParallelFor(10, workers, func(start, end int) {
				for i := start; i < end; i++ {
					hits[i]++
				}
			})
			for i, h := range hits {
				Expect(h).To(Equal(1), "workers=%d index=%d", workers, i)
			}
		}
	})
})
