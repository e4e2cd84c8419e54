package round

// Club identifies one of the fixed set of golf clubs a shot can be tracked
// with. The string value is the stable name persisted inside ShotTracked
// payloads; it is part of the on-disk compatibility surface, so renaming a
// constant's value is a breaking schema change for previously stored events.
type Club string

const (
	ClubDriver  Club = "Driver"
	ClubWood3   Club = "Wood_3"
	ClubHybrid3 Club = "Hybrid_3"
	ClubIron4   Club = "Iron_4"
	ClubIron5   Club = "Iron_5"
	ClubIron6   Club = "Iron_6"
	ClubIron7   Club = "Iron_7"
	ClubIron8   Club = "Iron_8"
	ClubIron9   Club = "Iron_9"
	ClubPitch   Club = "Pitch"
	ClubWedge54 Club = "Wedge_54"
	ClubPutter  Club = "Putter"
)

// ClubInfo carries the display names and the typical carry distance for a
// club. The range is an informational hint for club-selection UI only; no
// scoring or reconciliation logic depends on it.
type ClubInfo struct {
	Club      Club   `json:"club"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	RangeLow  int    `json:"rangeLow"`  // yards
	RangeHigh int    `json:"rangeHigh"` // yards
}

var clubInfos = []ClubInfo{
	{ClubDriver, "Driver", "Dr", 250, 300},
	{ClubWood3, "3 Wood", "3w", 220, 250},
	{ClubHybrid3, "3 Hybrid", "3Hy", 200, 220},
	{ClubIron4, "4 Iron", "4i", 185, 200},
	{ClubIron5, "5 Iron", "5i", 170, 185},
	{ClubIron6, "6 Iron", "6i", 155, 170},
	{ClubIron7, "7 Iron", "7i", 140, 155},
	{ClubIron8, "8 Iron", "8i", 125, 140},
	{ClubIron9, "9 Iron", "9i", 110, 125},
	{ClubPitch, "Pitch", "Pi", 170, 200},
	{ClubWedge54, "54 Wedge", "54", 20, 65},
	{ClubPutter, "Putter", "Put", 0, 20},
}

// Clubs returns the full bag in display order.
func Clubs() []ClubInfo {
	out := make([]ClubInfo, len(clubInfos))
	copy(out, clubInfos)
	return out
}

// Info returns the display metadata for a club. The second return value is
// false for a club name that is not part of the fixed set.
func (c Club) Info() (ClubInfo, bool) {
	for _, info := range clubInfos {
		if info.Club == c {
			return info, true
		}
	}
	return ClubInfo{}, false
}

// Valid reports whether c is one of the known club names.
func (c Club) Valid() bool {
	_, ok := c.Info()
	return ok
}
