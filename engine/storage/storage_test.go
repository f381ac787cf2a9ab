package storage

import (
	"testing"

	"github.com/bmizerany/assert"
	"github.com/pkg/errors"
	"github.com/xiaonanln/gwagent/engine/config"
)

func startTestStorage(t *testing.T) {
	err := Initialize(&config.StorageConfig{Type: "filesystem", Directory: t.TempDir()})
	assert.Equal(t, nil, err)
	t.Cleanup(Shutdown)
}

func testCharacter(name string) *CharacterData {
	return &CharacterData{
		UserID:   7,
		Shard:    1,
		Name:     name,
		RefID:    1907,
		Level:    3,
		Strength: 20,
		HP:       200,
		Region:   24744,
		X:        960.5,
		Z:        12.25,
		Gold:     50,
		Items: []CharacterItem{
			{Slot: 6, RefID: 10, UpgradeLevel: 2},
			{Slot: 13, RefID: 16, Amount: 20},
			{Slot: 14, RefID: 15, Variance: 12345, HasVariance: true},
		},
	}
}

func TestCreateAndLoadCharacter(t *testing.T) {
	startTestStorage(t)

	available, err := CheckName(1, "Hero").Wait()
	assert.Equal(t, nil, err)
	assert.Equal(t, true, available)

	res, err := CreateCharacter(testCharacter("Hero")).Wait()
	assert.Equal(t, nil, err)
	created := res.(*CharacterData)
	assert.Equal(t, uint32(1), created.ID)

	_, err = CreateCharacter(testCharacter("Hero")).Wait()
	assert.Equal(t, ErrNameTaken, errors.Cause(err))

	available, err = CheckName(1, "Hero").Wait()
	assert.Equal(t, nil, err)
	assert.Equal(t, false, available)

	res, err = LoadCharacterByName(1, "Hero").Wait()
	assert.Equal(t, nil, err)
	loaded := res.(*CharacterData)
	assert.Equal(t, created.ID, loaded.ID)
	assert.Equal(t, "Hero", loaded.Name)
	assert.Equal(t, uint32(7), loaded.UserID)
	assert.Equal(t, float32(960.5), loaded.X)
	assert.Equal(t, float32(12.25), loaded.Z)
	assert.Equal(t, uint64(50), loaded.Gold)
	assert.Equal(t, testCharacter("Hero").Items, loaded.Items)

	_, err = LoadCharacter(99).Wait()
	assert.Equal(t, ErrCharacterNotFound, errors.Cause(err))
	_, err = LoadCharacterByName(1, "Nobody").Wait()
	assert.Equal(t, ErrCharacterNotFound, errors.Cause(err))
}

func TestSaveListAndSetGM(t *testing.T) {
	startTestStorage(t)

	res, err := CreateCharacter(testCharacter("First")).Wait()
	assert.Equal(t, nil, err)
	first := res.(*CharacterData)
	_, err = CreateCharacter(testCharacter("Second")).Wait()
	assert.Equal(t, nil, err)

	first.Gold = 1000
	first.Items = nil
	task := SaveCharacter(first)
	first.Gold = 1 // the saved record is a copy
	_, err = task.Wait()
	assert.Equal(t, nil, err)

	res, err = ListCharacters(7, 1).Wait()
	assert.Equal(t, nil, err)
	chars := res.([]*CharacterData)
	assert.Equal(t, 2, len(chars))
	assert.Equal(t, "First", chars[0].Name)
	assert.Equal(t, uint64(1000), chars[0].Gold)
	assert.Equal(t, 0, len(chars[0].Items))
	assert.Equal(t, "Second", chars[1].Name)

	res, err = ListCharacters(8, 1).Wait()
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(res.([]*CharacterData)))

	_, err = SetGM(1, "Second", true).Wait()
	assert.Equal(t, nil, err)
	res, err = LoadCharacterByName(1, "Second").Wait()
	assert.Equal(t, nil, err)
	assert.Equal(t, true, res.(*CharacterData).GM)
}

func TestCharacterDocCodec(t *testing.T) {
	c := testCharacter("Codec")
	c.ID = 5
	decoded, err := characterFromDoc(c.toDoc())
	assert.Equal(t, nil, err)
	assert.Equal(t, c, decoded)

	_, err = characterFromDoc(map[string]interface{}{"charname": "noid"})
	assert.T(t, err != nil)
}
