// Package storeapi is a reference implementation of the store the tracker
// talks to: five JSON endpoints over a StudentRepository.
package storeapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/csg33k/tugas-tracker/internal/domain"
	"github.com/csg33k/tugas-tracker/internal/ports"
)

const (
	msgWrongPassword   = "Sandi salah"
	msgFieldsRequired  = "Semua field wajib diisi"
	msgStudentNotFound = "Mahasiswa tidak ditemukan"
	msgTaskNotFound    = "Tugas tidak ditemukan"
	msgUploaded        = "Link tugas berhasil disimpan"
	msgDeleted         = "Tugas berhasil dihapus"
	msgInternal        = "Terjadi kesalahan server"
)

type Server struct {
	repo     ports.StudentRepository
	hash     []byte
	validate *validator.Validate
	log      *slog.Logger
}

// HashPassword prepares the action password for New.
func HashPassword(pwd string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	return hash, errors.Wrap(err, "hash action password")
}

// New returns a store serving repo. Uploads and deletes must carry the
// password whose bcrypt hash is passwordHash.
func New(repo ports.StudentRepository, passwordHash []byte, log *slog.Logger) *Server {
	return &Server{
		repo:     repo,
		hash:     passwordHash,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Get("/students", s.listStudents)
	r.Get("/students/with-counts", s.listStudentsWithCounts)
	r.Route("/submissions/{studentId}", func(r chi.Router) {
		r.Get("/history", s.history)
		r.Post("/upload", s.upload)
		r.Post("/{submissionId}/delete", s.delete)
	})
	return r
}

func (s *Server) listStudents(w http.ResponseWriter, r *http.Request) {
	list, err := s.repo.ListStudents(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

func (s *Server) listStudentsWithCounts(w http.ResponseWriter, r *http.Request) {
	list, err := s.repo.ListStudentsWithCounts(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "studentId")
	if _, err := s.repo.GetStudent(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	subs, err := s.repo.ListSubmissions(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, subs)
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	var req domain.UploadRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	req.TaskName = strings.TrimSpace(req.TaskName)
	req.Link = strings.TrimSpace(req.Link)
	if err := s.check(&req, req.Password); err != nil {
		s.fail(w, r, err)
		return
	}
	sub := &domain.Submission{
		StudentID: chi.URLParam(r, "studentId"),
		TaskName:  req.TaskName,
		Link:      req.Link,
	}
	if err := s.repo.AddSubmission(r.Context(), sub); err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Info("submission stored", "student", sub.StudentID, "submission", sub.ID)
	respondWithResult(w, http.StatusCreated, msgUploaded)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	var req domain.DeleteRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.check(&req, req.Password); err != nil {
		s.fail(w, r, err)
		return
	}
	studentID, subID := chi.URLParam(r, "studentId"), chi.URLParam(r, "submissionId")
	if err := s.repo.DeleteSubmission(r.Context(), studentID, subID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithResult(w, http.StatusNotFound, msgTaskNotFound)
			return
		}
		s.fail(w, r, err)
		return
	}
	s.log.Info("submission deleted", "student", studentID, "submission", subID)
	respondWithResult(w, http.StatusOK, msgDeleted)
}

func (s *Server) decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errBadRequest, err.Error())
	}
	return nil
}

// check validates req, then the password.
func (s *Server) check(req interface{}, pwd string) error {
	if err := s.validate.Struct(req); err != nil {
		return errors.Wrap(errBadRequest, err.Error())
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(pwd)); err != nil {
		return errUnauthorized
	}
	return nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFromError(err)
	var msg string
	switch code {
	case http.StatusBadRequest:
		msg = msgFieldsRequired
	case http.StatusUnauthorized:
		msg = msgWrongPassword
	case http.StatusNotFound:
		msg = msgStudentNotFound
	default:
		msg = msgInternal
		s.log.Error("store request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
	}
	respondWithResult(w, code, msg)
}
