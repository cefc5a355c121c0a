//go:build cgo

package onnx

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/teatak/tagseg/lexicon"
	"github.com/teatak/tagseg/tag"
)

var (
	runtimeMu          sync.Mutex
	runtimeInitialized bool
)

// InitRuntime initializes the ONNX Runtime environment once per process.
// libraryPath can be empty to search the usual locations.
func InitRuntime(libraryPath string) error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if runtimeInitialized {
		return nil
	}
	if libraryPath == "" {
		libraryPath = findLibrary()
	}
	if libraryPath != "" {
		ort.SetSharedLibraryPath(libraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("onnx: initialize runtime: %w", err)
	}
	slog.Debug("onnx runtime initialized", "library", libraryPath)
	runtimeInitialized = true
	return nil
}

// DestroyRuntime releases the environment. Sessions must be closed first.
func DestroyRuntime() error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if !runtimeInitialized {
		return nil
	}
	if err := ort.DestroyEnvironment(); err != nil {
		return fmt.Errorf("onnx: destroy runtime: %w", err)
	}
	runtimeInitialized = false
	return nil
}

func findLibrary() string {
	paths := []string{
		os.Getenv("ONNXRUNTIME_LIB"),
		"/usr/lib/libonnxruntime.so",
		"/usr/local/lib/libonnxruntime.so",
		"/opt/onnxruntime/lib/libonnxruntime.so",
		"/opt/homebrew/lib/libonnxruntime.dylib",
		"/usr/local/lib/libonnxruntime.dylib",
	}
	for _, dir := range filepath.SplitList(os.Getenv("LD_LIBRARY_PATH")) {
		paths = append(paths, filepath.Join(dir, "libonnxruntime.so"))
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Session is a loaded tagging model. ONNX Runtime sessions accept
// concurrent Run calls, so one Session serves every worker.
type Session struct {
	inner      *ort.DynamicAdvancedSession
	idType     ort.TensorElementDataType
	inputNames []string
	path       string
}

// Open loads the model at path.
func Open(path string, opts Options) (*Session, error) {
	if err := InitRuntime(opts.LibraryPath); err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("onnx: read model info %s: %w", path, err)
	}
	if len(inputs) < 2 || len(outputs) < 1 {
		return nil, fmt.Errorf("onnx: %s has %d inputs and %d outputs, want 2 and 1", path, len(inputs), len(outputs))
	}
	inputNames := []string{inputs[0].Name, inputs[1].Name}
	outputNames := []string{outputs[0].Name}

	sessOpts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: session options: %w", err)
	}
	defer sessOpts.Destroy()

	if opts.IntraOpThreads > 0 {
		if err := sessOpts.SetIntraOpNumThreads(opts.IntraOpThreads); err != nil {
			return nil, fmt.Errorf("onnx: intra-op threads: %w", err)
		}
	}
	if opts.InterOpThreads > 0 {
		if err := sessOpts.SetInterOpNumThreads(opts.InterOpThreads); err != nil {
			return nil, fmt.Errorf("onnx: inter-op threads: %w", err)
		}
	}
	if opts.UseCUDA {
		if err := appendCUDA(sessOpts, opts.CUDADevice); err != nil {
			slog.Warn("cuda not available, using cpu", "error", err)
		}
	}

	inner, err := ort.NewDynamicAdvancedSession(path, inputNames, outputNames, sessOpts)
	if err != nil {
		return nil, fmt.Errorf("onnx: create session %s: %w", path, err)
	}
	slog.Debug("onnx session created", "model", path, "inputs", inputNames, "outputs", outputNames)

	return &Session{
		inner:      inner,
		idType:     inputs[0].DataType,
		inputNames: inputNames,
		path:       path,
	}, nil
}

func appendCUDA(sessOpts *ort.SessionOptions, device int) error {
	cudaOpts, err := ort.NewCUDAProviderOptions()
	if err != nil {
		return err
	}
	defer cudaOpts.Destroy()
	if err := cudaOpts.Update(map[string]string{"device_id": strconv.Itoa(device)}); err != nil {
		return err
	}
	return sessOpts.AppendExecutionProviderCUDA(cudaOpts)
}

// Run tags a padded batch.
func (s *Session) Run(ids [][]int64, factors lexicon.FactorMatrix) ([][]tag.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(factors) != len(ids) {
		return nil, fmt.Errorf("onnx: %d id rows but %d factor rows", len(ids), len(factors))
	}

	flatIDs, length := flatten(ids)
	batch := int64(len(ids))
	idShape := ort.NewShape(batch, int64(length))

	var idTensor ort.Value
	if s.idType == ort.TensorElementDataTypeInt32 {
		ids32 := make([]int32, len(flatIDs))
		for i, id := range flatIDs {
			ids32[i] = int32(id)
		}
		t, err := ort.NewTensor(idShape, ids32)
		if err != nil {
			return nil, fmt.Errorf("onnx: id tensor: %w", err)
		}
		idTensor = t
	} else {
		t, err := ort.NewTensor(idShape, flatIDs)
		if err != nil {
			return nil, fmt.Errorf("onnx: id tensor: %w", err)
		}
		idTensor = t
	}
	defer idTensor.Destroy()

	flatFactors := make([]float32, 0, len(flatIDs)*tag.NumBias)
	for _, row := range factors {
		if len(row) != length {
			return nil, fmt.Errorf("onnx: factor row has %d positions, want %d", len(row), length)
		}
		for _, f := range row {
			flatFactors = append(flatFactors, f[:]...)
		}
	}
	factorTensor, err := ort.NewTensor(ort.NewShape(batch, int64(length), tag.NumBias), flatFactors)
	if err != nil {
		return nil, fmt.Errorf("onnx: factor tensor: %w", err)
	}
	defer factorTensor.Destroy()

	outputs := []ort.Value{nil}
	if err := s.inner.Run([]ort.Value{idTensor, factorTensor}, outputs); err != nil {
		return nil, fmt.Errorf("onnx: run %s: %w", s.path, err)
	}
	defer func() {
		for _, out := range outputs {
			if out != nil {
				out.Destroy()
			}
		}
	}()

	switch out := outputs[0].(type) {
	case *ort.Tensor[int64]:
		return idTags(out.GetData(), len(ids), length)
	case *ort.Tensor[int32]:
		return idTags(out.GetData(), len(ids), length)
	case *ort.Tensor[float32]:
		shape := out.GetShape()
		if len(shape) != 3 {
			return nil, fmt.Errorf("onnx: score output has shape %v, want 3 dimensions", shape)
		}
		return argmaxTags(out.GetData(), len(ids), length, int(shape[2]))
	default:
		return nil, errors.New("onnx: unsupported output tensor type")
	}
}

// Close releases the session.
func (s *Session) Close() error {
	if s.inner == nil {
		return nil
	}
	err := s.inner.Destroy()
	s.inner = nil
	return err
}
