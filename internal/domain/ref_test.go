package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefDecodesBareID(t *testing.T) {
	var pkg UserPackage
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"up1","mealPackageId":"mp1","remainingTurns":3}`), &pkg))

	assert.Equal(t, "mp1", pkg.MealPackage.ID)
	assert.False(t, pkg.MealPackage.Populated())
}

func TestRefDecodesPopulatedObject(t *testing.T) {
	var pkg UserPackage
	body := `{"_id":"up1","mealPackageId":{"_id":"mp1","name":"10 lượt","turns":10,"price":350000}}`
	require.NoError(t, json.Unmarshal([]byte(body), &pkg))

	require.True(t, pkg.MealPackage.Populated())
	assert.Equal(t, "mp1", pkg.MealPackage.ID)
	assert.Equal(t, "10 lượt", pkg.MealPackage.Value.Name)
	assert.Equal(t, 10, pkg.MealPackage.Value.Turns)
}

func TestRefDecodesNull(t *testing.T) {
	var order Order
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"o1","userId":null}`), &order))

	assert.Empty(t, order.User.ID)
	assert.False(t, order.User.Populated())
}

func TestRefRejectsGarbage(t *testing.T) {
	var ref Ref[User]
	assert.Error(t, json.Unmarshal([]byte(`42`), &ref))
}

func TestRefMarshal(t *testing.T) {
	out, err := json.Marshal(Ref[MenuItem]{ID: "m1"})
	require.NoError(t, err)
	assert.JSONEq(t, `"m1"`, string(out))

	out, err = json.Marshal(Ref[MenuItem]{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	out, err = json.Marshal(Ref[MenuItem]{ID: "m1", Value: &MenuItem{ID: "m1", Name: "Cá kho"}})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"name":"Cá kho"`)
}

func TestOrderItemName(t *testing.T) {
	populated := OrderItem{MenuItem: Ref[MenuItem]{ID: "m1", Value: &MenuItem{Name: "Canh chua"}}}
	bare := OrderItem{MenuItem: Ref[MenuItem]{ID: "m2"}}

	assert.Equal(t, "Canh chua", populated.ItemName())
	assert.Equal(t, "m2", bare.ItemName())
}
