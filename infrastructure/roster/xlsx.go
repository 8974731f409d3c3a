package roster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ahrav/go-gradebook/internal/domain"
	"github.com/ahrav/go-gradebook/internal/ports"
)

// exportSheet is the sheet name used by WriteXLSX.
const exportSheet = "Roster"

// readXLSX imports the first sheet of a workbook. Row numbers in errors are
// spreadsheet row numbers, so the header is row 1.
func (l *Loader) readXLSX(ctx context.Context, r io.Reader, source string) (*domain.Classroom, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ports.NewRosterError(source, 0, fmt.Errorf("open workbook: %w", err))
	}
	defer func() {
		if err := f.Close(); err != nil {
			l.logger.Warn("closing workbook", zap.String("source", source), zap.Error(err))
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ports.NewRosterError(source, 0, errors.New("workbook does not contain any sheets"))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, ports.NewRosterError(source, 0, fmt.Errorf("read sheet %s: %w", sheet, err))
	}
	if len(rows) == 0 {
		return nil, ports.NewRosterError(source, 0, ports.ErrEmptyRoster)
	}

	courses, err := parseHeader(rows[0])
	if err != nil {
		return nil, ports.NewRosterError(source, 1, err)
	}

	classroom := domain.NewClassroom()
	for i, cells := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row := i + 2
		if isBlankRow(cells) {
			continue
		}

		regNo, name, scores, err := parseRow(cells, courses)
		if err != nil {
			return nil, ports.NewRosterError(source, row, err)
		}
		if err := addStudent(classroom, source, row, name, regNo, scores); err != nil {
			return nil, err
		}
	}

	l.logger.Debug("workbook parsed",
		zap.String("source", source),
		zap.String("sheet", sheet),
		zap.Int("rows", len(rows)))
	return classroom, nil
}

// parseHeader validates the header row and returns the course columns.
func parseHeader(header []string) ([]string, error) {
	if len(header) < 2 ||
		!strings.EqualFold(strings.TrimSpace(header[0]), HeaderRegistration) ||
		!strings.EqualFold(strings.TrimSpace(header[1]), HeaderName) {
		return nil, fmt.Errorf("%w: header must start with %q and %q",
			ports.ErrMalformedRow, HeaderRegistration, HeaderName)
	}

	courses := make([]string, 0, len(header)-2)
	seen := make(map[string]struct{}, len(header)-2)
	for col, course := range header[2:] {
		if strings.TrimSpace(course) == "" {
			return nil, fmt.Errorf("%w: course header in column %d is blank", ports.ErrMalformedRow, col+3)
		}
		// Headers are kept verbatim so exported course names read back unchanged.
		if err := domain.ValidateCourseName(course); err != nil {
			return nil, fmt.Errorf("course header in column %d: %w", col+3, err)
		}
		if _, dup := seen[course]; dup {
			return nil, fmt.Errorf("%w: course %q appears twice in the header", ports.ErrMalformedRow, course)
		}
		seen[course] = struct{}{}
		courses = append(courses, course)
	}
	return courses, nil
}

// parseRow extracts one student from a data row. Blank score cells are
// skipped and non-integer cells are rejected.
func parseRow(cells, courses []string) (regNo, name string, scores map[string]int, err error) {
	cell := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}

	if len(cells) > len(courses)+2 {
		for i := len(courses) + 2; i < len(cells); i++ {
			if cell(i) != "" {
				return "", "", nil, fmt.Errorf("%w: value in column %d has no course header", ports.ErrMalformedRow, i+1)
			}
		}
	}

	scores = make(map[string]int, len(courses))
	for i, course := range courses {
		raw := cell(i + 2)
		if raw == "" {
			continue
		}
		score, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return "", "", nil, fmt.Errorf("%w: course %q: %q is not a whole number", ports.ErrMalformedRow, course, raw)
		}
		scores[course] = score
	}

	return cell(0), cell(1), scores, nil
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteXLSX exports classroom as a single-sheet workbook in the layout
// readXLSX accepts: students in registration number order, courses sorted
// by name, blank cells for missing scores. Course names that could not be
// read back unchanged are rejected before anything is written.
func WriteXLSX(w io.Writer, classroom *domain.Classroom) (err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", closeErr)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	courses, err := exportCourses(classroom)
	if err != nil {
		return err
	}
	header := append([]string{HeaderRegistration, HeaderName}, courses...)
	for col, title := range header {
		if err := setCell(f, col+1, 1, title); err != nil {
			return err
		}
	}

	for i, s := range classroom.Students() {
		row := i + 2
		if err := setCell(f, 1, row, s.RegistrationNumber()); err != nil {
			return err
		}
		if err := setCell(f, 2, row, s.Name()); err != nil {
			return err
		}
		for j, course := range courses {
			if score, ok := s.Score(course); ok {
				if err := setCell(f, j+3, row, score); err != nil {
					return err
				}
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name for column %d row %d: %w", col, row, err)
	}
	if err := f.SetCellValue(exportSheet, cell, value); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return nil
}
