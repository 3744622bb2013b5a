package service

import "golang.org/x/crypto/bcrypt"

// HashPassword genera un hash bcrypt con el costo indicado.
// Un costo fuera de rango cae al default de la librería.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// CheckPassword indica si plain corresponde al hash almacenado.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
