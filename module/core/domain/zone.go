package domain

import "time"

// HoursWindow is a daily operating window, both bounds formatted "HH:mm".
type HoursWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Zone is a polygonal geofence with optional operating-hours restrictions.
// The ring is closed (first vertex equals the last) with at least four
// vertices; validity is a caller precondition and is not re-checked here.
type Zone struct {
	ID       string     `json:"id"`
	TenantID string     `json:"tenant_id"`
	Name     string     `json:"name"`
	Ring     []Position `json:"ring"`
	Active   bool       `json:"active"`
	// AllowedHours restricts movement to a daily window; nil means
	// unrestricted.
	AllowedHours *HoursWindow `json:"allowed_hours,omitempty"`
	// AllowedDays restricts movement to specific weekdays; empty means
	// unrestricted.
	AllowedDays []time.Weekday `json:"allowed_days,omitempty"`
	Color       string         `json:"color,omitempty"`
}

// Contains reports whether p falls inside the zone's polygon, using ray
// casting with coordinates treated as planar. The flat-earth approximation
// holds at city scale.
func (z *Zone) Contains(p Position) bool {
	n := len(z.Ring)
	if n < 4 {
		return false
	}
	inside := false
	// The ring is closed, so iterating edges (i-1, i) over [1, n) covers
	// the whole boundary exactly once.
	for i := 1; i < n; i++ {
		a, b := z.Ring[i-1], z.Ring[i]
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) {
			x := a.Lon + (p.Lat-a.Lat)/(b.Lat-a.Lat)*(b.Lon-a.Lon)
			if p.Lon < x {
				inside = !inside
			}
		}
	}
	return inside
}

// HasSchedule reports whether the zone declares any time restriction.
func (z *Zone) HasSchedule() bool {
	return z.AllowedHours != nil || len(z.AllowedDays) > 0
}

// AllowsDay reports whether movement is permitted on t's weekday.
func (z *Zone) AllowsDay(t time.Time) bool {
	if len(z.AllowedDays) == 0 {
		return true
	}
	for _, d := range z.AllowedDays {
		if t.Weekday() == d {
			return true
		}
	}
	return false
}

// WithinAllowedHours reports whether t's time of day falls inside the
// allowed window. Bounds are compared lexicographically as "HH:mm", so a
// window crossing midnight (e.g. 22:00-06:00) matches nothing; that
// limitation is deliberate and kept as-is.
func (z *Zone) WithinAllowedHours(t time.Time) bool {
	if z.AllowedHours == nil {
		return true
	}
	hm := t.Format("15:04")
	return z.AllowedHours.Start <= hm && hm <= z.AllowedHours.End
}
