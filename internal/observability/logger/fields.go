package logger

import (
	"go.uber.org/zap"
)

// Field es un alias de zap.Field para no importar zap en cada paquete.
type Field = zap.Field

// =================================================================================
// HTTP
// =================================================================================

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }
func Addr(v string) zap.Field      { return zap.String("addr", v) }

// DurationMs es la duración del request en milisegundos.
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }

// =================================================================================
// USUARIOS / STORE
// =================================================================================

func UserID(v string) zap.Field { return zap.String("user_id", v) }

// Fields lista los nombres de campo de un payload (nunca los valores).
func Fields(names []string) zap.Field { return zap.Strings("fields", names) }

func Driver(v string) zap.Field  { return zap.String("driver", v) }
func Op(v string) zap.Field      { return zap.String("op", v) }
func Outcome(v string) zap.Field { return zap.String("outcome", v) }
func Count(v int) zap.Field      { return zap.Int("count", v) }

// =================================================================================
// SISTEMA
// =================================================================================

// Layer identifica la capa: controller, service, store.
func Layer(v string) zap.Field     { return zap.String("layer", v) }
func Component(v string) zap.Field { return zap.String("component", v) }
func Err(err error) zap.Field      { return zap.Error(err) }

// =================================================================================
// GENÉRICOS
// =================================================================================

func String(k, v string) zap.Field { return zap.String(k, v) }
func Int(k string, v int) zap.Field { return zap.Int(k, v) }
