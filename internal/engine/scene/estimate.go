package scene

// CountBatches returns the exact number of batches Compile will build: the
// number of distinct material keys per group, summed over all groups. The
// same material used in two groups counts twice.
func CountBatches(src Source) (int, error) {
	if src.NumObjects() == 0 {
		return 0, ErrEmptyInput
	}

	var seen [MaxMaterials]bool
	total := 0

	for i := 0; i < src.NumObjects(); i++ {
		obj := src.Object(i)
		for g := range obj.Groups {
			group := &obj.Groups[g]
			seen = [MaxMaterials]bool{}

			for f := range group.Faces {
				key, err := MaterialKey(group.Faces[f].Material)
				if err != nil {
					return 0, faceError(err, obj, group, f)
				}
				if !seen[key] {
					seen[key] = true
					total++
				}
			}
		}
	}

	return total, nil
}
