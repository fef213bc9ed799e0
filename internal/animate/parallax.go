package animate

import (
	"strconv"

	"github.com/Zachkp/portfolio/internal/dom"
)

// bindParallax points the page-wide scroll listener at the parallax
// elements of the new view. The listener is created on first use and kept;
// with no targets bound it does nothing.
func (c *Controller) bindParallax(root dom.Element) {
	if c.viewport == nil {
		return
	}
	targets := root.QuerySelectorAll(ParallaxTarget)
	if len(targets) == 0 {
		return
	}
	if c.stopScroll == nil {
		c.stopScroll = c.viewport.OnScroll(c.applyParallax)
	}
	c.parallaxTargets = targets
	h := c.track(Parallax)
	h.release = func() { c.parallaxTargets = nil }
}

func (c *Controller) applyParallax(y float64) {
	for _, el := range c.parallaxTargets {
		offset := y * c.speed(el)
		el.SetStyle("transform", "translateY("+strconv.FormatFloat(offset, 'f', -1, 64)+"px)")
	}
}

func (c *Controller) speed(el dom.Element) float64 {
	raw, ok := el.Data("speed")
	if !ok {
		return c.cfg.ParallaxSpeed
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return c.cfg.ParallaxSpeed
	}
	return v
}
