package volume

// Unit cube spanning [-1,1]³ with four vertices per face so every face can
// carry its own color. Triangles wind counter-clockwise seen from outside.
var cubeCorners = [24][3]float32{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1}, // -z
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}, // +z
	{-1, -1, -1}, {-1, 1, -1}, {-1, 1, 1}, {-1, -1, 1}, // -x
	{1, -1, -1}, {1, 1, -1}, {1, 1, 1}, {1, -1, 1}, // +x
	{-1, -1, -1}, {-1, -1, 1}, {1, -1, 1}, {1, -1, -1}, // -y
	{-1, 1, -1}, {-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, // +y
}

var faceColors = [6][4]float32{
	{1, 0, 0, 1},
	{0, 1, 0, 1},
	{0, 0, 1, 1},
	{1, 0.5, 0, 1},
	{0, 0.5, 1, 1},
	{1, 0, 0.5, 1},
}

// CubeIndices lists the 36 triangle corners of the unit cube.
var CubeIndices = []uint16{
	0, 2, 1, 0, 3, 2,
	4, 5, 6, 4, 6, 7,
	8, 10, 9, 8, 11, 10,
	12, 13, 14, 12, 14, 15,
	16, 18, 17, 16, 19, 18,
	20, 21, 22, 20, 22, 23,
}

// CubePositions returns the 24 cube vertices as xyz triples.
func CubePositions() []float32 {
	out := make([]float32, 0, len(cubeCorners)*3)
	for _, c := range cubeCorners {
		out = append(out, c[:]...)
	}
	return out
}

// CubeColoredVertices returns the 24 cube vertices as interleaved
// position and RGBA records, one color per face.
func CubeColoredVertices() []float32 {
	out := make([]float32, 0, len(cubeCorners)*7)
	for i, c := range cubeCorners {
		out = append(out, c[:]...)
		out = append(out, faceColors[i/4][:]...)
	}
	return out
}
