package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// User es la única entidad del sistema: un ID asignado por el store
// más un conjunto abierto de campos definidos por la aplicación.
type User struct {
	ID     string
	Fields map[string]any
}

// MarshalJSON serializa el usuario como objeto plano: {"id": "...", <campos>}.
func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Fields)+1)
	for k, v := range u.Fields {
		out[k] = v
	}
	out["id"] = u.ID
	return json.Marshal(out)
}

// UnmarshalJSON acepta el mismo objeto plano que produce MarshalJSON.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.ID = ""
	if id, ok := raw["id"].(string); ok {
		u.ID = id
	}
	delete(raw, "id")
	u.Fields = raw
	return nil
}

// UserFields son los campos de un usuario nuevo.
type UserFields map[string]any

// UserPatch son los campos a reemplazar en un usuario existente.
// Los campos ausentes se conservan.
type UserPatch map[string]any

// Keys retorna los nombres de campo ordenados.
func (f UserFields) Keys() []string { return sortedKeys(f) }

// Keys retorna los nombres de campo ordenados.
func (p UserPatch) Keys() []string { return sortedKeys(p) }

// Merge aplica el patch sobre fields y retorna un mapa nuevo.
func Merge(fields map[string]any, patch UserPatch) map[string]any {
	out := make(map[string]any, len(fields)+len(patch))
	for k, v := range fields {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UserRepository es el puerto de persistencia de usuarios.
type UserRepository interface {
	// List retorna todos los usuarios en el orden que defina el store.
	// Colección vacía = slice vacío, sin error.
	List(ctx context.Context) ([]User, error)

	// Create inserta un usuario; el store asigna el ID.
	Create(ctx context.Context, fields UserFields) (*User, error)

	// UpdateByID aplica el patch y retorna el usuario actualizado.
	// Retorna ErrNotFound si no existe.
	UpdateByID(ctx context.Context, id string, patch UserPatch) (*User, error)

	// DeleteByID elimina el usuario y lo retorna tal como estaba.
	// Retorna ErrNotFound si no existe.
	DeleteByID(ctx context.Context, id string) (*User, error)
}

// ─── Política de campos ───

var fieldNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,63}$`)

var reservedFields = map[string]struct{}{
	"id":  {},
	"_id": {},
}

// FieldPolicy decide qué campos puede escribir un cliente.
// Sin allow-list se acepta cualquier nombre válido no reservado.
type FieldPolicy struct {
	allowed map[string]struct{}
}

// NewFieldPolicy crea una política. allowed vacío = cualquier nombre válido.
func NewFieldPolicy(allowed []string) FieldPolicy {
	p := FieldPolicy{}
	for _, name := range allowed {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if p.allowed == nil {
			p.allowed = make(map[string]struct{})
		}
		p.allowed[name] = struct{}{}
	}
	return p
}

// Restricted indica si hay allow-list configurada.
func (p FieldPolicy) Restricted() bool { return len(p.allowed) > 0 }

// CheckName valida un nombre de campo.
func (p FieldPolicy) CheckName(name string) error {
	if _, ok := reservedFields[name]; ok {
		return fmt.Errorf("%w: field %q is reserved", ErrInvalidInput, name)
	}
	if !fieldNameRe.MatchString(name) {
		return fmt.Errorf("%w: invalid field name %q", ErrInvalidInput, name)
	}
	if p.Restricted() {
		if _, ok := p.allowed[name]; !ok {
			return fmt.Errorf("%w: field %q is not writable", ErrInvalidInput, name)
		}
	}
	return nil
}

// CheckFields valida los campos de creación.
func (p FieldPolicy) CheckFields(fields UserFields) error {
	for _, k := range fields.Keys() {
		if err := p.CheckName(k); err != nil {
			return err
		}
	}
	return nil
}

// CheckPatch valida los campos de actualización.
func (p FieldPolicy) CheckPatch(patch UserPatch) error {
	for _, k := range patch.Keys() {
		if err := p.CheckName(k); err != nil {
			return err
		}
	}
	return nil
}
