// Package cycle maps calendar days onto corpus positions.
//
// The learning cycle starts at an anchor day (DefaultAnchor, 1 January 1864)
// and advances one unit per calendar day through the corpus's canonical
// order, wrapping at the end:
//
//	position = floorMod(days(date) - days(anchor), totalUnits)
//
// so any totalUnits consecutive days visit every unit exactly once, and a
// date and the date totalUnits days later resolve to the same unit. Days are
// counted on calendar fields only; the caller (or Scheduler) decides which
// time zone defines "today" and applies it before calling in.
//
// Nothing here holds state. Callers wanting to avoid recomputation cache
// per local day themselves (see package daily).
package cycle
