package manager

import (
	"time"

	"github.com/google/uuid"

	"segd/internal/cache"
	"segd/pkg/types"
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	Checkpoint types.Checkpoint
	// Device requested for the predictor. DeviceAuto is resolved once, here,
	// by detection (Detector when set, otherwise the build's ONNX check).
	Device     Device
	Detector   func() Device
	RuntimeLib string
	NumThreads int
	// CacheEnabled turns on the single-slot result cache. Off by default.
	CacheEnabled bool
	// Collaborators. Nil selects the ONNX SAM predictor and the file decoder.
	Factory   PredictorFactory
	Decoder   ImageDecoder
	Publisher EventPublisher
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		state:     StateUninitialized,
		slot:      make(chan struct{}, 1),
		factory:   cfg.Factory,
		decoder:   cfg.Decoder,
		publisher: cfg.Publisher,
		cache:     cache.New(cfg.CacheEnabled),
		history:   NewEventRing(defaultEventHistory),
		sessionID: uuid.NewString(),
		startTime: time.Now(),
	}
	// Apply defaults if unset
	if m.factory == nil {
		m.factory = NewSAMFactory()
	}
	if m.decoder == nil {
		m.decoder = FileDecoder{}
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	m.requested = cfg.Device
	if m.requested == "" {
		m.requested = DeviceAuto
	}
	device := m.requested
	if device == DeviceAuto {
		if cfg.Detector != nil {
			device = cfg.Detector()
		} else {
			device = DetectDevice(cfg.RuntimeLib)
		}
	}
	m.spec = ModelSpec{
		Checkpoint: cfg.Checkpoint,
		Device:     device,
		RuntimeLib: cfg.RuntimeLib,
		NumThreads: cfg.NumThreads,
	}
	return m
}
