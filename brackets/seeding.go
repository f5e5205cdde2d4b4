package brackets

import (
	"sort"

	"github.com/Dosada05/tournament-draw/models"
)

// BracketSize - фиксированный размер сетки плей-офф.
const BracketSize = 16

// seedPositions maps seed rank (0-indexed) to a leaf slot of the bracket.
// This is the standard balanced order: seed 1 and seed 2 end up in opposite
// halves, seeds 3-4 in opposite quarters, and so on, so top seeds cannot
// meet before the late rounds.
var seedPositions = [BracketSize]int{0, 15, 7, 8, 3, 12, 4, 11, 1, 14, 6, 9, 2, 13, 5, 10}

// PlaceSeeds распределяет сеяных игроков по слотам сетки. Ранг k (с единицы)
// занимает слот seedPositions[k-1]; несеяные слоты остаются nil и позже
// заполняются квалифицировавшимися из групп. Если сеяных больше BracketSize,
// размещаются только первые BracketSize по возрастанию ранга.
func PlaceSeeds(seeded []*models.Player) [BracketSize]*int {
	var slots [BracketSize]*int

	ordered := make([]*models.Player, 0, len(seeded))
	for _, p := range seeded {
		if p != nil && p.SeedRank != nil {
			ordered = append(ordered, p)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return *ordered[i].SeedRank < *ordered[j].SeedRank
	})

	if len(ordered) > BracketSize {
		ordered = ordered[:BracketSize]
	}

	for i, p := range ordered {
		id := p.ID
		slots[seedPositions[i]] = &id
	}
	return slots
}
