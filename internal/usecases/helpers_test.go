package usecases

import (
	"context"
	"io"

	"go-drive-dedup/internal/domain/entities"
)

// sliceIterator serves files in order, then err (io.EOF when nil)
type sliceIterator struct {
	files []*entities.RawFile
	pos   int
	err   error
	reads int
}

func newSliceIterator(files ...*entities.RawFile) *sliceIterator {
	return &sliceIterator{files: files}
}

func (it *sliceIterator) Next(ctx context.Context) (*entities.RawFile, error) {
	it.reads++
	if it.pos >= len(it.files) {
		if it.err != nil {
			return nil, it.err
		}
		return nil, io.EOF
	}
	f := it.files[it.pos]
	it.pos++
	return f, nil
}

func rawFolder(id, name string, parents ...string) *entities.RawFolder {
	return &entities.RawFolder{ID: id, Name: name, Parents: parents}
}

func rawFile(id, checksum string, parents ...string) *entities.RawFile {
	return &entities.RawFile{ID: id, Name: id + ".bin", Size: "10", Checksum: checksum, Parents: parents}
}

func pathsByID(m *entities.FolderMap) map[string]string {
	paths := make(map[string]string)
	for _, f := range m.Folders() {
		paths[f.ID] = f.Path
	}
	return paths
}
