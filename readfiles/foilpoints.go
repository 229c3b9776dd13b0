package readfiles

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/notargets/gocst/types"
)

/*
ReadFoilPoints reads unit chord foil samples as rows of x, upper y and lower
y. Comment lines starting with # and rows that are not three numbers, like
column headers, are skipped.
*/
func ReadFoilPoints(r io.Reader) (x, yu, yl []float64, err error) {
	const op = "readfiles.ReadFoilPoints"
	var (
		scanner = bufio.NewScanner(r)
	)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 3 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		row, ok := parseRow(fields)
		if !ok {
			continue
		}
		x, yu, yl = append(x, row[0]), append(yu, row[1]), append(yl, row[2])
	}
	if err = scanner.Err(); err != nil {
		return nil, nil, nil, errors.Wrap(err, op)
	}
	if len(x) < 3 {
		return nil, nil, nil, types.NewValidationError(op, "need at least 3 rows of x, upper y, lower y, have %d",
			len(x))
	}
	return
}

func ReadFoilPointsFile(fileName string) (x, yu, yl []float64, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(fileName); err != nil {
		return nil, nil, nil, errors.Wrapf(err, "unable to open foil points file %s", fileName)
	}
	defer file.Close()
	if x, yu, yl, err = ReadFoilPoints(file); err != nil {
		return nil, nil, nil, errors.Wrapf(err, "foil points file %s", fileName)
	}
	return
}
