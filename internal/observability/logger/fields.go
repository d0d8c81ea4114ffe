package logger

import "go.uber.org/zap"

// ─── HTTP ───

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Route(v string) zap.Field     { return zap.String("route", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }
func UserAgent(v string) zap.Field { return zap.String("user_agent", v) }

// ─── Negocio ───

func TenantID(v string) zap.Field { return zap.String("tenant_id", v) }
func UserID(v string) zap.Field   { return zap.String("user_id", v) }
func ClientID(v string) zap.Field { return zap.String("client_id", v) }

// Email logs the address. Do not use it for unauthenticated failures in prod.
func Email(v string) zap.Field  { return zap.String("email", v) }
func Role(v string) zap.Field   { return zap.String("role", v) }
func Action(v string) zap.Field { return zap.String("action", v) }
func Reason(v string) zap.Field { return zap.String("reason", v) }

// ─── Capas ───

func Layer(v string) zap.Field     { return zap.String("layer", v) }
func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }

// ─── Genéricos ───

func Err(err error) zap.Field                { return zap.Error(err) }
func String(k, v string) zap.Field           { return zap.String(k, v) }
func Int(k string, v int) zap.Field          { return zap.Int(k, v) }
func Bool(k string, v bool) zap.Field        { return zap.Bool(k, v) }
func Strings(k string, v []string) zap.Field { return zap.Strings(k, v) }
func Any(k string, v any) zap.Field          { return zap.Any(k, v) }
