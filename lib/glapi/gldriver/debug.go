package gldriver

import (
	"context"
	"log/slog"
	"unsafe"

	"github.com/fosdem/shadermgr/lib/metrics"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/mattn/go-pointer"
)

func severityLevel(severity uint32) (slog.Level, string) {
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		return slog.LevelError, "high"
	case gl.DEBUG_SEVERITY_MEDIUM:
		return slog.LevelWarn, "medium"
	case gl.DEBUG_SEVERITY_LOW:
		return slog.LevelInfo, "low"
	default:
		return slog.LevelDebug, "notification"
	}
}

// debugCallback is shared by every context; the userdata names the
// Driver that owns the context which raised the message.
func debugCallback(source uint32, typ uint32, id uint32, severity uint32, length int32, message string, userParam unsafe.Pointer) {
	d, ok := pointer.Restore(userParam).(*Driver)
	if !ok {
		return
	}
	d.debugMessage(severity, id, message)
}

func (d *Driver) debugMessage(severity uint32, id uint32, message string) {
	level, label := severityLevel(severity)
	metrics.DriverMessages.WithLabelValues(label).Inc()
	d.log.Log(context.Background(), level, message, slog.Uint64("id", uint64(id)))
}

// enableDebugOutput routes driver debug messages of the current context
// into d's logger. GL errors raised by uniform writes only show up here.
func (d *Driver) enableDebugOutput() {
	d.userParam = pointer.Save(d)

	gl.Enable(gl.DEBUG_OUTPUT)
	gl.DebugMessageControl(gl.DONT_CARE, gl.DONT_CARE, gl.DONT_CARE, 0, nil, true)
	gl.DebugMessageCallback(debugCallback, d.userParam)
}

// Close detaches the debug callback. The context must still be current.
func (d *Driver) Close() {
	if d.userParam == nil {
		return
	}
	gl.Disable(gl.DEBUG_OUTPUT)
	pointer.Unref(d.userParam)
	d.userParam = nil
}
