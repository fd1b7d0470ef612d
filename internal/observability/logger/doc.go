// Package logger provee el logger Zap del servicio con scoping por contexto.
//
//   - Singleton: una instancia global inicializada con Init() en main.go.
//   - Context scoping: cada request lleva su logger con request_id, method y path.
//   - Entornos: "dev" consola con colores, "prod" JSON, "test" descarta todo.
//
// Inicialización:
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
// En handlers/services:
//
//	log := logger.From(ctx)
//	log.Info("user updated", logger.UserID(id))
package logger
