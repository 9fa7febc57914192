package stdhost

import "github.com/dekarrin/mathscript/host"

// indexList turns a single dimension argument -- a scalar index or a
// range/vector of indices -- into a list of 0-based positions, validating
// each one against size and producing the bit-exact IndexError the core
// package defines (expr.IndexError), translated back to 1-based terms as
// described in the error-handling notes (§7).
func indexList(dim Value, size int) ([]int, error) {
	scalars, err := asIndexScalars(dim)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(scalars))
	for i, idx1 := range scalars {
		if idx1 < 1 {
			return nil, indexErrorUnder(idx1)
		}
		if idx1 > size {
			return nil, indexErrorOver(idx1, size)
		}
		out[i] = idx1 - 1
	}
	return out, nil
}

func asIndexScalars(dim Value) ([]int, error) {
	switch dim.Kind {
	case KindNumber:
		if !isInt(dim.Num) {
			return nil, typeErrorf("index must be an integer, got %v", dim.Num)
		}
		return []int{int(dim.Num)}, nil
	case KindMatrix:
		if len(dim.Mat) != 1 {
			return nil, typeErrorf("index dimension must be a row vector")
		}
		out := make([]int, len(dim.Mat[0]))
		for i, c := range dim.Mat[0] {
			if !isInt(c.Num) {
				return nil, typeErrorf("index must be an integer, got %v", c.Num)
			}
			out[i] = int(c.Num)
		}
		return out, nil
	default:
		return nil, typeErrorf("cannot use %s as an index", dim.kindName())
	}
}

func subsetGet(obj Value, rawDims []host.Value) (host.Value, error) {
	switch obj.Kind {
	case KindMatrix:
		if len(rawDims) == 1 {
			if len(obj.Mat) == 1 {
				// row vector: a single dimension indexes into the row's
				// columns rather than selecting whole rows.
				colIdx, err := indexList(asValue(rawDims[0]), len(obj.Mat[0]))
				if err != nil {
					return nil, err
				}
				out := make([]Value, len(colIdx))
				for i, c := range colIdx {
					out[i] = obj.Mat[0][c]
				}
				if len(out) == 1 {
					return out[0], nil
				}
				return Matrix([][]Value{out}), nil
			}
			rowIdx, err := indexList(asValue(rawDims[0]), len(obj.Mat))
			if err != nil {
				return nil, err
			}
			if len(obj.Mat) > 0 && len(obj.Mat[0]) == 1 {
				// column vector: a single dimension indexes elements
				// directly rather than whole rows.
				out := make([]Value, len(rowIdx))
				for i, r := range rowIdx {
					out[i] = obj.Mat[r][0]
				}
				if len(out) == 1 {
					return out[0], nil
				}
				rows := make([][]Value, len(out))
				for i, v := range out {
					rows[i] = []Value{v}
				}
				return Matrix(rows), nil
			}
			if len(rowIdx) == 1 {
				row := obj.Mat[rowIdx[0]]
				if len(row) == 1 {
					return row[0], nil
				}
				return Matrix([][]Value{row}), nil
			}
			rows := make([][]Value, len(rowIdx))
			for i, r := range rowIdx {
				rows[i] = obj.Mat[r]
			}
			return Matrix(rows), nil
		}
		if len(rawDims) == 2 {
			rowIdx, err := indexList(asValue(rawDims[0]), len(obj.Mat))
			if err != nil {
				return nil, err
			}
			colSize := 0
			if len(obj.Mat) > 0 {
				colSize = len(obj.Mat[0])
			}
			colIdx, err := indexList(asValue(rawDims[1]), colSize)
			if err != nil {
				return nil, err
			}
			rows := make([][]Value, len(rowIdx))
			for i, r := range rowIdx {
				row := make([]Value, len(colIdx))
				for j, c := range colIdx {
					row[j] = obj.Mat[r][c]
				}
				rows[i] = row
			}
			if len(rows) == 1 && len(rows[0]) == 1 {
				return rows[0][0], nil
			}
			return Matrix(rows), nil
		}
		return nil, typeErrorf("matrix indexing supports 1 or 2 dimensions, got %d", len(rawDims))
	case KindString:
		if len(rawDims) != 1 {
			return nil, typeErrorf("string indexing supports exactly 1 dimension")
		}
		idx, err := indexList(asValue(rawDims[0]), len(obj.Str))
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(idx))
		for i, p := range idx {
			out[i] = obj.Str[p]
		}
		return String(string(out)), nil
	default:
		return nil, typeErrorf("cannot index a %s", obj.kindName())
	}
}

func subsetSet(obj Value, rawDims []host.Value, val Value) (host.Value, error) {
	if obj.Kind == KindUndefined {
		// implicit creation: "a[3] = 5" on an undefined a creates a vector.
		obj = Matrix(nil)
	}
	if obj.Kind != KindMatrix {
		return nil, typeErrorf("cannot index-assign into a %s", obj.kindName())
	}
	switch len(rawDims) {
	case 1:
		return subsetSet1D(obj, rawDims[0], val)
	case 2:
		return subsetSet2D(obj, rawDims[0], rawDims[1], val)
	default:
		return nil, typeErrorf("index-assignment supports 1 or 2 dimensions, got %d", len(rawDims))
	}
}

func subsetSet1D(obj Value, rawDim host.Value, val Value) (host.Value, error) {
	scalars, err := asIndexScalars(asValue(rawDim))
	if err != nil {
		return nil, err
	}
	if len(obj.Mat) == 1 {
		// row vector: extend/overwrite columns in place.
		row := append([]Value(nil), obj.Mat[0]...)
		for _, idx1 := range scalars {
			if idx1 < 1 {
				return nil, indexErrorUnder(idx1)
			}
			for len(row) < idx1 {
				row = append(row, Number(0))
			}
			row[idx1-1] = val
		}
		return Matrix([][]Value{row}), nil
	}
	mat := append([][]Value(nil), obj.Mat...)
	for _, idx1 := range scalars {
		if idx1 < 1 {
			return nil, indexErrorUnder(idx1)
		}
		for len(mat) < idx1 {
			mat = append(mat, []Value{Number(0)})
		}
		mat[idx1-1] = []Value{val}
	}
	return Matrix(mat), nil
}

// subsetSet2D handles "a[rows, cols] = val", resizing a to fit the largest
// requested row/column index and filling any newly created cells with 0
// (§8.2 scenario 6: a[2:3,2:3] = [...] grows a 2x2 matrix to 3x3).
func subsetSet2D(obj Value, rawRow, rawCol host.Value, val Value) (host.Value, error) {
	rowIdx, err := asIndexScalars(asValue(rawRow))
	if err != nil {
		return nil, err
	}
	colIdx, err := asIndexScalars(asValue(rawCol))
	if err != nil {
		return nil, err
	}
	for _, idx1 := range rowIdx {
		if idx1 < 1 {
			return nil, indexErrorUnder(idx1)
		}
	}
	for _, idx1 := range colIdx {
		if idx1 < 1 {
			return nil, indexErrorUnder(idx1)
		}
	}

	maxRow := len(obj.Mat)
	for _, idx1 := range rowIdx {
		if idx1 > maxRow {
			maxRow = idx1
		}
	}
	maxCol := 0
	if len(obj.Mat) > 0 {
		maxCol = len(obj.Mat[0])
	}
	for _, idx1 := range colIdx {
		if idx1 > maxCol {
			maxCol = idx1
		}
	}

	mat := make([][]Value, maxRow)
	for i := range mat {
		row := make([]Value, maxCol)
		for j := range row {
			if i < len(obj.Mat) && j < len(obj.Mat[i]) {
				row[j] = obj.Mat[i][j]
			} else {
				row[j] = Number(0)
			}
		}
		mat[i] = row
	}

	if val.Kind == KindMatrix {
		if len(val.Mat) != len(rowIdx) || (len(rowIdx) > 0 && len(val.Mat[0]) != len(colIdx)) {
			return nil, dimensionErrorf("assignment dimensions mismatch")
		}
		for i, r := range rowIdx {
			for j, c := range colIdx {
				mat[r-1][c-1] = val.Mat[i][j]
			}
		}
		return Matrix(mat), nil
	}

	for _, r := range rowIdx {
		for _, c := range colIdx {
			mat[r-1][c-1] = val
		}
	}
	return Matrix(mat), nil
}
