package service

import (
	"context"
	"io"
	"sync"

	"anoa.com/eduelevate/internal/entity"
	"anoa.com/eduelevate/pkg/storage"
	"github.com/google/uuid"
)

type fakeStorage struct {
	mu            sync.Mutex
	videoDuration int
	uploads       []string
	deleted       []string
	uploadErr     error
}

func (f *fakeStorage) UploadImage(_ context.Context, r io.Reader, folder, fileName string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	_, _ = io.ReadAll(r)

	f.mu.Lock()
	defer f.mu.Unlock()
	url := "https://cdn.example.com/" + folder + "/" + fileName
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeStorage) UploadVideo(ctx context.Context, r io.Reader, folder, fileName string) (*storage.VideoAsset, error) {
	url, err := f.UploadImage(ctx, r, folder, fileName)
	if err != nil {
		return nil, err
	}
	return &storage.VideoAsset{URL: url, DurationSeconds: f.videoDuration}, nil
}

func (f *fakeStorage) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}

type fakeIndexer struct {
	indexed []uuid.UUID
	removed []uuid.UUID
}

func (f *fakeIndexer) IndexCourse(_ context.Context, course *entity.Course) error {
	f.indexed = append(f.indexed, course.ID)
	return nil
}

func (f *fakeIndexer) DeleteCourse(_ context.Context, id uuid.UUID) error {
	f.removed = append(f.removed, id)
	return nil
}

type fakeRatings struct {
	invalidated []uuid.UUID
}

func (f *fakeRatings) InvalidateAverage(_ context.Context, courseIDs ...uuid.UUID) {
	f.invalidated = append(f.invalidated, courseIDs...)
}

type fakeEnrollments struct {
	enrolled  map[uuid.UUID]bool
	completed []uuid.UUID
	counts    map[uuid.UUID]int64
}

func (f *fakeEnrollments) IsEnrolled(_ context.Context, courseID, _ uuid.UUID) (bool, error) {
	return f.enrolled[courseID], nil
}

func (f *fakeEnrollments) CompletedVideos(context.Context, uuid.UUID, uuid.UUID) ([]uuid.UUID, error) {
	if f.completed == nil {
		return []uuid.UUID{}, nil
	}
	return f.completed, nil
}

func (f *fakeEnrollments) CountStudents(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := map[uuid.UUID]int64{}
	for _, id := range ids {
		out[id] = f.counts[id]
	}
	return out, nil
}
