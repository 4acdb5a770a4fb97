package pokeapi

// TypeMember is one Pokémon listed under a type.
type TypeMember struct {
	Name string
	ID   int
}

// Type is a Pokémon type and its members, in API order.
type Type struct {
	Name    string
	Members []TypeMember
}

// Wire formats below mirror the remote API responses.

type resourceRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type typeIndexResponse struct {
	Results []resourceRef `json:"results"`
}

type typeResponse struct {
	Name    string `json:"name"`
	Pokemon []struct {
		Pokemon resourceRef `json:"pokemon"`
	} `json:"pokemon"`
}

type localizedName struct {
	Name     string `json:"name"`
	Language struct {
		Name string `json:"name"`
	} `json:"language"`
}

type speciesResponse struct {
	Names []localizedName `json:"names"`
}

type pokemonResponse struct {
	Name  string        `json:"name"`
	Forms []resourceRef `json:"forms"`
}

type formResponse struct {
	Names []localizedName `json:"names"`
}
