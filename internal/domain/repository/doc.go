// Package repository define el puerto de persistencia de usuarios.
//
// El contrato es independiente del motor subyacente (MongoDB, PostgreSQL,
// SQLite o memoria). Los handlers HTTP dependen solo de estas interfaces.
//
// Las implementaciones concretas viven en internal/store/adapters/.
//
// Arquitectura:
//
//	┌─────────────────────────────────────────────────────┐
//	│           Controllers / Services (HTTP)             │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	                        ▼
//	┌─────────────────────────────────────────────────────┐
//	│        domain/repository (interfaces)               │
//	│  UserRepository, FieldPolicy, StoreError            │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	      ┌─────────────┬───┴─────────┬─────────────┐
//	      ▼             ▼             ▼             ▼
//	┌───────────┐ ┌───────────┐ ┌───────────┐ ┌───────────┐
//	│   mongo   │ │    pg     │ │  sqlite   │ │  memory   │
//	└───────────┘ └───────────┘ └───────────┘ └───────────┘
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - El ID lo asigna el store y nunca cambia
//   - ErrNotFound y *StoreError son resultados distintos (ver Classify)
package repository
