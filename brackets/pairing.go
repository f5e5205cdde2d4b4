package brackets

import "sort"

// Entrant - участник плей-офф: сеяный игрок или квалифицировавшийся из
// группы. GroupName пуст у сеяных - они не несут "группового происхождения".
type Entrant struct {
	PlayerID    int
	Affiliation string
	GroupName   string
}

// Pair - пара первого раунда плей-офф.
type Pair struct {
	Player1ID int
	Player2ID int
}

// Qualifier - игрок, вышедший из группы по итогам таблицы.
type Qualifier struct {
	PlayerID    int
	GroupName   string
	GroupRank   int
	Points      int
	Affiliation string
}

// SelectQualifiers берёт из каждой таблицы первых quota[group] игроков
// (prefix-take) и возвращает единый список, отсортированный по убыванию
// очков, затем по возрастанию места в группе. Группы обходятся в
// лексикографическом порядке, чтобы результат был детерминирован.
func SelectQualifiers(standings map[string][]PlayerStanding, quota map[string]int, affiliations map[int]string) []Qualifier {
	groups := make([]string, 0, len(standings))
	for name := range standings {
		groups = append(groups, name)
	}
	sort.Strings(groups)

	qualifiers := make([]Qualifier, 0)
	for _, name := range groups {
		table := standings[name]
		take := quota[name]
		if take > len(table) {
			take = len(table)
		}
		for rank := 0; rank < take; rank++ {
			st := table[rank]
			qualifiers = append(qualifiers, Qualifier{
				PlayerID:    st.PlayerID,
				GroupName:   name,
				GroupRank:   rank + 1,
				Points:      st.Points,
				Affiliation: affiliations[st.PlayerID],
			})
		}
	}

	sort.SliceStable(qualifiers, func(i, j int) bool {
		if qualifiers[i].Points != qualifiers[j].Points {
			return qualifiers[i].Points > qualifiers[j].Points
		}
		return qualifiers[i].GroupRank < qualifiers[j].GroupRank
	})
	return qualifiers
}

// PairEntrants составляет пары первого раунда, по возможности разводя
// игроков одной организации и одной группы (они либо уже играли между
// собой, либо представляют один клуб). Три жадных прохода по списку:
//  1. строгий - другой клуб И другая группа;
//  2. ослабленный - только другой клуб;
//  3. добивающий - любой оставшийся.
//
// Каждый проход видит только тех, кого не спарили предыдущие; спаренный
// игрок из рассмотрения не возвращается. При чётном входе пары получают
// всех; при нечётном ровно один остаётся без пары и возвращается отдельно.
// Порядок пар - порядок, в котором первый игрок пары был найден проходами.
func PairEntrants(entrants []Entrant) ([]Pair, *Entrant) {
	used := make([]bool, len(entrants))
	pairs := make([]Pair, 0, len(entrants)/2)

	match := func(canPair func(a, b Entrant) bool) {
		for i := 0; i < len(entrants); i++ {
			if used[i] {
				continue
			}
			for j := i + 1; j < len(entrants); j++ {
				if used[j] {
					continue
				}
				if !canPair(entrants[i], entrants[j]) {
					continue
				}
				pairs = append(pairs, Pair{Player1ID: entrants[i].PlayerID, Player2ID: entrants[j].PlayerID})
				used[i] = true
				used[j] = true
				break
			}
		}
	}

	match(func(a, b Entrant) bool {
		return a.Affiliation != b.Affiliation && a.GroupName != b.GroupName
	})
	match(func(a, b Entrant) bool {
		return a.Affiliation != b.Affiliation
	})
	match(func(a, b Entrant) bool {
		return true
	})

	for i := range entrants {
		if !used[i] {
			leftover := entrants[i]
			return pairs, &leftover
		}
	}
	return pairs, nil
}
