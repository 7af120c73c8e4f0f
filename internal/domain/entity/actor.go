package entity

import "github.com/jhoicas/clinic-franchise-api/internal/domain"

// Actor identifica a quien ejecuta una operación (extraído del JWT).
type Actor struct {
	UserID      string
	FranchiseID string
	Role        string
}

// IsAdmin indica si el actor opera sobre todas las franquicias.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// ResolveFranchise devuelve la franquicia sobre la que filtrar un listado.
// El admin puede pedir cualquiera (o ninguna = todas); el resto solo la propia.
func (a Actor) ResolveFranchise(requested string) (string, error) {
	if a.IsAdmin() {
		return requested, nil
	}
	if a.FranchiseID == "" {
		return "", domain.ErrForbidden
	}
	if requested != "" && requested != a.FranchiseID {
		return "", domain.ErrForbidden
	}
	return a.FranchiseID, nil
}

// RequireFranchise igual que ResolveFranchise pero exige un valor (escrituras).
func (a Actor) RequireFranchise(requested string) (string, error) {
	id, err := a.ResolveFranchise(requested)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", domain.NewValidationError(map[string]string{"franchise_id": "es obligatorio para administradores"})
	}
	return id, nil
}

// CanAccess indica si el actor puede ver/modificar un registro de franchiseID.
func (a Actor) CanAccess(franchiseID string) bool {
	return a.IsAdmin() || (a.FranchiseID != "" && a.FranchiseID == franchiseID)
}
