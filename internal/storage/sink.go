package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rohmanhakim/astar-state/internal/metadata"
	"github.com/rohmanhakim/astar-state/pkg/failure"
	"github.com/rohmanhakim/astar-state/pkg/fileutil"
	"github.com/rohmanhakim/astar-state/pkg/hashutil"
	"github.com/rohmanhakim/astar-state/pkg/retry"
)

/*
Responsibilities
- Persist rendered search-state snapshots
- Ensure deterministic filenames

Output Characteristics
- One file per distinct state, named after its digest
- Idempotent writes
- Overwrite-safe reruns
*/

const snapshotExt = ".state"

type Sink interface {
	Write(
		outputDir string,
		lines []string,
		hashAlgo hashutil.HashAlgo,
	) (WriteResult, failure.ClassifiedError)
}

type LocalSink struct {
	metadataSink metadata.MetadataSink
	retryParam   retry.RetryParam
}

func NewLocalSink(
	metadataSink metadata.MetadataSink,
	retryParam retry.RetryParam,
) LocalSink {
	if metadataSink == nil {
		metadataSink = &metadata.NoopSink{}
	}
	return LocalSink{
		metadataSink: metadataSink,
		retryParam:   retryParam,
	}
}

// Write stores lines under outputDir/<digest prefix>.state. The file's
// digest under hashAlgo equals the digest of lines, so a replay report
// digest points at the file holding that state. Retryable failures are
// retried according to the sink's retry parameters.
func (s *LocalSink) Write(
	outputDir string,
	lines []string,
	hashAlgo hashutil.HashAlgo,
) (WriteResult, failure.ClassifiedError) {
	writeResult, err := retry.Retry(s.retryParam, func() (WriteResult, failure.ClassifiedError) {
		return write(outputDir, lines, hashAlgo)
	})
	if err != nil {
		var storageError *StorageError
		errors.As(err, &storageError)

		attrs := []metadata.Attribute{
			metadata.NewAttr(metadata.AttrWritePath, outputDir),
		}
		var retryErr *retry.RetryError
		if errors.As(err, &retryErr) {
			attrs = append(attrs, metadata.NewAttr(metadata.AttrAttempts, strconv.Itoa(retryErr.Attempts)))
		}
		s.metadataSink.RecordError(
			time.Now(),
			"storage",
			"LocalSink.Write",
			mapStorageErrorToMetadataCause(storageError),
			err.Error(),
			attrs,
		)
		return WriteResult{}, err
	}
	return writeResult, nil
}

func write(
	outputDir string,
	lines []string,
	hashAlgo hashutil.HashAlgo,
) (WriteResult, failure.ClassifiedError) {
	digest, err := hashutil.HashLines(lines, hashAlgo)
	if err != nil {
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseHashComputationFailed,
		}
	}

	if err := fileutil.EnsureDir(outputDir); err != nil {
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCausePathError,
			Path:      outputDir,
		}
	}

	// First 12 hex characters are enough to tell states of one run apart
	fullPath := filepath.Join(outputDir, digest[:12]+snapshotExt)

	var content strings.Builder
	for _, line := range lines {
		content.WriteString(line)
		content.WriteByte('\n')
	}

	if err := os.WriteFile(fullPath, []byte(content.String()), 0644); err != nil {
		cause := ErrCauseWriteFailure
		retryable := false
		if errors.Is(err, syscall.ENOSPC) {
			cause = ErrCauseDiskFull
			retryable = true
		}
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: retryable,
			Cause:     cause,
			Path:      fullPath,
		}
	}

	return NewWriteResult(digest, fullPath, len(lines)), nil
}
