package models

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// loadMTL reads newmtl and Kd statements from a material library. Other
// statements are ignored.
func loadMTL(path string) ([]Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var mats []Material
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "newmtl":
			name := ""
			if len(fields) > 1 {
				name = fields[1]
			}
			mats = append(mats, NewMaterial(name))
		case "Kd":
			if len(mats) == 0 {
				continue
			}
			kd, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", path, lineNo, err)
			}
			mats[len(mats)-1].Diffuse = [3]float64{kd.X, kd.Y, kd.Z}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read mtl: %w", err)
	}
	return mats, nil
}
