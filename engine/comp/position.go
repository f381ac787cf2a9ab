package comp

import (
	"math"

	"github.com/xiaonanln/gwagent/engine/consts"
	"github.com/xiaonanln/gwagent/engine/proto"
)

// RegionID makes the id of the world region at grid cell (x, y)
func RegionID(x, y uint8) uint16 {
	return uint16(y)<<8 | uint16(x)
}

// IsDungeon checks if the region is a dungeon; dungeon coordinates are not on the world grid
func IsDungeon(region uint16) bool {
	return region&consts.DUNGEON_REGION_FLAG != 0
}

// Position is a location local to a region and a heading in degrees
type Position struct {
	Region  uint16
	X       float32
	Y       float32
	Z       float32
	Heading float32
}

// Global converts the local coordinates to continuous world coordinates
func (p Position) Global() (x, y, z float32) {
	if IsDungeon(p.Region) {
		return p.X, p.Y, p.Z
	}
	rx := float32(p.Region & 0xff)
	rz := float32(p.Region >> 8)
	return rx*consts.REGION_SIZE + p.X, p.Y, rz*consts.REGION_SIZE + p.Z
}

// PositionFromGlobal converts world coordinates back into a region and local coordinates.
// Positions in a dungeon stay in that dungeon.
func PositionFromGlobal(dungeon uint16, x, y, z float32, heading float32) Position {
	if IsDungeon(dungeon) {
		return Position{Region: dungeon, X: x, Y: y, Z: z, Heading: heading}
	}
	rx := int(math.Floor(float64(x / consts.REGION_SIZE)))
	rz := int(math.Floor(float64(z / consts.REGION_SIZE)))
	rx, rz = clampRegion(rx, 0xff), clampRegion(rz, 0x7f)
	return Position{
		Region:  RegionID(uint8(rx), uint8(rz)),
		X:       x - float32(rx)*consts.REGION_SIZE,
		Y:       y,
		Z:       z - float32(rz)*consts.REGION_SIZE,
		Heading: heading,
	}
}

func clampRegion(v int, max int) int {
	if v < 0 {
		return 0
	} else if v > max {
		return max
	}
	return v
}

// SameSpace checks if two positions can see each other at all: both in the open world or both in one dungeon
func (p Position) SameSpace(o Position) bool {
	if IsDungeon(p.Region) || IsDungeon(o.Region) {
		return p.Region == o.Region
	}
	return true
}

// DistanceTo returns the distance on the horizontal plane, infinite across spaces
func (p Position) DistanceTo(o Position) float32 {
	if !p.SameSpace(o) {
		return float32(math.Inf(1))
	}
	x1, _, z1 := p.Global()
	x2, _, z2 := o.Global()
	return float32(math.Hypot(float64(x2-x1), float64(z2-z1)))
}

// MoveTowards steps at most step units towards dest, facing it, and reports arrival
func (p Position) MoveTowards(dest Position, step float32) (Position, bool) {
	if !p.SameSpace(dest) {
		return p, true
	}
	x1, y1, z1 := p.Global()
	x2, y2, z2 := dest.Global()
	dx, dz := x2-x1, z2-z1
	dist := float32(math.Hypot(float64(dx), float64(dz)))
	heading := p.Heading
	if dist > 0 {
		heading = HeadingOf(dx, dz)
	}
	if dist <= step {
		dest.Heading = heading
		return dest, true
	}

	ratio := step / dist
	return PositionFromGlobal(p.Region, x1+dx*ratio, y1+(y2-y1)*ratio, z1+dz*ratio, heading), false
}

// HeadingOf returns the heading in degrees of direction (dx, dz), 0 towards +x, counter clockwise
func HeadingOf(dx, dz float32) float32 {
	deg := float32(math.Atan2(float64(dz), float64(dx)) * 180 / math.Pi)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Location converts to the wire location
func (p Position) Location() proto.Location {
	return proto.Location{Region: p.Region, X: p.X, Y: p.Y, Z: p.Z}
}

// EntityPosition converts to the wire position
func (p Position) EntityPosition() proto.EntityPosition {
	return proto.EntityPosition{Location: p.Location(), Heading: p.Heading}
}

// PositionOf converts a wire location
func PositionOf(l proto.Location) Position {
	return Position{Region: l.Region, X: l.X, Y: l.Y, Z: l.Z}
}
