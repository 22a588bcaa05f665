/*
 * scf.go, part of goqchem.
 *
 *
 * Copyright 2016 Esteban Gampel <egampel{at}gmailDOTcom>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

//Package qcplot draws quick diagnostic plots from parsed run logs.
package qcplot

import (
	"fmt"
	"image/color"
	"math"

	"github.com/egampel/goqchem/qcio"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = vg.Millimeter * 3
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

//SCFConvergence plots the SCF energy against the iteration number, one
//line per SCF attempt, and saves the figure as plotname.png.
func SCFConvergence(res *qcio.Result, title, plotname string) error {
	if res == nil {
		panic("Given nil result")
	}
	if len(res.SCFIterations) == 0 {
		return fmt.Errorf("qcplot: the result has no SCF iteration history")
	}
	p := basicPlot(title, "Iteration", "Energy (Ha)")
	for key, attempt := range res.SCFIterations {
		pts := make(plotter.XYs, len(attempt))
		for i, step := range attempt {
			pts[i].X = float64(i + 1)
			pts[i].Y = step.Energy
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		r, g, b := colors(key, len(res.SCFIterations))
		l.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		p.Add(l)
		p.Legend.Add(fmt.Sprintf("attempt %d", key+1), l)
	}
	return p.Save(5*vg.Inch, 5*vg.Inch, fmt.Sprintf("%s.png", plotname))
}

//DIISError plots the DIIS error of each SCF attempt on a log10 scale.
func DIISError(res *qcio.Result, title, plotname string) error {
	if res == nil {
		panic("Given nil result")
	}
	if len(res.SCFIterations) == 0 {
		return fmt.Errorf("qcplot: the result has no SCF iteration history")
	}
	p := basicPlot(title, "Iteration", "log10(DIIS error)")
	for key, attempt := range res.SCFIterations {
		var pts plotter.XYs
		for i, step := range attempt {
			if step.DIISError <= 0 {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(i + 1), Y: math.Log10(step.DIISError)})
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		r, g, b := colors(key, len(res.SCFIterations))
		l.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		p.Add(l)
		p.Legend.Add(fmt.Sprintf("attempt %d", key+1), l)
	}
	return p.Save(5*vg.Inch, 5*vg.Inch, fmt.Sprintf("%s.png", plotname))
}

//FrequencySpectrum draws the vibrational frequencies of a freq job as
//a stick spectrum.
func FrequencySpectrum(res *qcio.Result, title, plotname string) error {
	if res == nil {
		panic("Given nil result")
	}
	if len(res.Frequencies) == 0 {
		return fmt.Errorf("qcplot: the result has no frequencies")
	}
	p := basicPlot(title, "Frequency (1/cm)", "")
	p.Y.Min = 0
	p.Y.Max = 1
	for _, f := range res.Frequencies {
		stick := plotter.XYs{{X: f.Frequency, Y: 0}, {X: f.Frequency, Y: 1}}
		l, err := plotter.NewLine(stick)
		if err != nil {
			return err
		}
		l.Color = color.RGBA{A: 255}
		p.Add(l)
	}
	return p.Save(5*vg.Inch, 5*vg.Inch, fmt.Sprintf("%s.png", plotname))
}

//takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var i, f, p, q, t float64
	var r, g, b float64
	maxcolor := 255.0
	h = h / 60
	i = math.Floor(h)
	f = h - i
	p = v * (1 - s)
	q = v * (1 - s*f)
	t = v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r = v
		g = t
		b = p
	case 1:
		r = q
		g = v
		b = p
	case 2:
		r = p
		g = v
		b = t
	case 3:
		r = p
		g = q
		b = v
	case 4:
		r = t
		g = p
		b = v
	default:
		r = v
		g = p
		b = q
	}
	return uint8(r * maxcolor), uint8(g * maxcolor), uint8(b * maxcolor)
}

//colors spreads len hues evenly and returns the key-th one.
func colors(key, steps int) (uint8, uint8, uint8) {
	if steps <= 0 {
		steps = 1
	}
	h := 360.0 * float64(key) / float64(steps)
	return iHVS2RGB(h, 0.9, 0.9)
}
