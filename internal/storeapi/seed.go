package storeapi

import (
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/csg33k/tugas-tracker/internal/domain"
	"github.com/csg33k/tugas-tracker/internal/ports"
)

// Seed registers the students listed in r, a JSON array of {"nama","nim"}
// objects. Students whose NIM is already registered are skipped. It returns
// how many were added.
func Seed(ctx context.Context, repo ports.StudentRepository, r io.Reader) (int, error) {
	var in []domain.Student
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return 0, errors.Wrap(err, "decode seed file")
	}
	existing, err := repo.ListStudents(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, s := range existing {
		seen[s.Number] = true
	}
	added := 0
	for _, s := range in {
		if s.Number == "" || seen[s.Number] {
			continue
		}
		s.ID = ""
		s.SubmissionCount = 0
		if err := repo.CreateStudent(ctx, &s); err != nil {
			return added, err
		}
		seen[s.Number] = true
		added++
	}
	return added, nil
}
