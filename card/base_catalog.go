package card

// BaseCards is the built-in card set. Deployments can extend or replace it
// via Catalog.LoadFromJSON; the engine only ever reads cards by ID.
var BaseCards = []Card{
	// Characters: local reach
	{ID: "char_borough_mayor", Name: "Borough Mayor", Type: TypeCharacter, Influence: 3, CampaignValue: 12000, Rarity: RarityCommon, Category: CategoryLocal, Country: "VL", Tags: []string{"municipal"}, Effect: NoEffect},
	{ID: "char_council_veteran", Name: "Council Veteran", Type: TypeCharacter, Influence: 2, CampaignValue: 9000, Rarity: RarityCommon, Category: CategoryLocal, Country: "VL", Tags: []string{"municipal"}, Effect: Effect{Kind: EffectCoalitionBonus, Amount: 2}},
	{ID: "char_union_steward", Name: "Union Steward", Type: TypeCharacter, Influence: 3, CampaignValue: 13000, Rarity: RarityCommon, Category: CategoryLocal, Country: "VL", Tags: []string{"labor"}, Effect: Effect{Kind: EffectMomentumBonus, MinMomentum: 1, MaxMomentum: 2, Amount: 2}},
	{ID: "char_precinct_captain", Name: "Precinct Captain", Type: TypeCharacter, Influence: 2, CampaignValue: 8000, Rarity: RarityCommon, Category: CategoryLocal, Country: "VL", Tags: []string{"grassroots"}, Effect: NoEffect},
	{ID: "char_school_board_chair", Name: "School Board Chair", Type: TypeCharacter, Influence: 2, CampaignValue: 10000, Rarity: RarityCommon, Category: CategoryLocal, Country: "OS", Tags: []string{"municipal"}, Effect: NoEffect},
	{ID: "char_harbor_commissioner", Name: "Harbor Commissioner", Type: TypeCharacter, Influence: 4, CampaignValue: 16000, Rarity: RarityRare, Category: CategoryLocal, Country: "OS", Tags: []string{"industry"}, Effect: NoEffect},
	{ID: "char_district_organizer", Name: "District Organizer", Type: TypeCharacter, Influence: 3, CampaignValue: 11000, Rarity: RarityCommon, Category: CategoryLocal, Country: "OS", Tags: []string{"grassroots"}, Effect: Effect{Kind: EffectMomentumBonus, MinMomentum: 4, MaxMomentum: 6, Amount: 1}},
	{ID: "char_city_treasurer", Name: "City Treasurer", Type: TypeCharacter, Influence: 3, CampaignValue: 14000, Rarity: RarityCommon, Category: CategoryLocal, Country: "KR", Tags: []string{"finance"}, Effect: NoEffect},

	// Characters: national reach
	{ID: "char_senator", Name: "Senator", Type: TypeCharacter, Influence: 5, CampaignValue: 21000, Rarity: RarityRare, Category: CategoryNational, Country: "VL", Tags: []string{"parliament"}, Effect: NoEffect},
	{ID: "char_party_whip", Name: "Party Whip", Type: TypeCharacter, Influence: 4, CampaignValue: 18000, Rarity: RarityRare, Category: CategoryNational, Country: "VL", Tags: []string{"parliament"}, Effect: Effect{Kind: EffectCoalitionBonus, Amount: 3}},
	{ID: "char_finance_minister", Name: "Finance Minister", Type: TypeCharacter, Influence: 6, CampaignValue: 24000, Rarity: RarityRare, Category: CategoryNational, Country: "OS", Tags: []string{"cabinet", "finance"}, Effect: NoEffect},
	{ID: "char_press_secretary", Name: "Press Secretary", Type: TypeCharacter, Influence: 4, CampaignValue: 17000, Rarity: RarityCommon, Category: CategoryNational, Country: "OS", Tags: []string{"media"}, Effect: Effect{Kind: EffectMomentumBonus, MinMomentum: 3, MaxMomentum: 6, Amount: 2}},
	{ID: "char_opposition_leader", Name: "Opposition Leader", Type: TypeCharacter, Influence: 5, CampaignValue: 22000, Rarity: RarityRare, Category: CategoryNational, Country: "KR", Tags: []string{"parliament"}, Effect: Effect{Kind: EffectMomentumBonus, MinMomentum: 1, MaxMomentum: 2, Amount: 3}},
	{ID: "char_defense_minister", Name: "Defense Minister", Type: TypeCharacter, Influence: 6, CampaignValue: 25000, Rarity: RarityRare, Category: CategoryNational, Country: "KR", Tags: []string{"cabinet"}, Effect: NoEffect},

	// Characters: global reach
	{ID: "char_chancellor", Name: "Chancellor", Type: TypeCharacter, Influence: 8, CampaignValue: 32000, Rarity: RarityUnique, Category: CategoryGlobal, Country: "VL", Tags: []string{"head_of_government"}, Effect: NoEffect},
	{ID: "char_un_envoy", Name: "UN Envoy", Type: TypeCharacter, Influence: 6, CampaignValue: 26000, Rarity: RarityRare, Category: CategoryGlobal, Country: "OS", Tags: []string{"diplomacy"}, Effect: Effect{Kind: EffectCoalitionBonus, Amount: 4}},
	{ID: "char_trade_commissioner", Name: "Trade Commissioner", Type: TypeCharacter, Influence: 7, CampaignValue: 28000, Rarity: RarityUnique, Category: CategoryGlobal, Country: "KR", Tags: []string{"diplomacy", "finance"}, Effect: NoEffect},
	{ID: "char_media_mogul", Name: "Media Mogul", Type: TypeCharacter, Influence: 7, CampaignValue: 30000, Rarity: RarityUnique, Category: CategoryGlobal, Country: "VL", Tags: []string{"media"}, Effect: Effect{Kind: EffectMomentumBonus, MinMomentum: 5, MaxMomentum: 6, Amount: 3}},
	{ID: "char_ngo_director", Name: "NGO Director", Type: TypeCharacter, Influence: 5, CampaignValue: 23000, Rarity: RarityRare, Category: CategoryGlobal, Country: "OS", Tags: []string{"civil_society"}, Effect: NoEffect},
	{ID: "char_central_banker", Name: "Central Banker", Type: TypeCharacter, Influence: 6, CampaignValue: 27000, Rarity: RarityRare, Category: CategoryGlobal, Country: "KR", Tags: []string{"finance"}, Effect: NoEffect},

	// Specials
	{ID: "spec_televised_debate", Name: "Televised Debate", Type: TypeSpecial, Influence: 0, CampaignValue: 5000, Rarity: RarityCommon, Effect: Effect{Kind: EffectInfluenceDelta, Amount: 3}},
	{ID: "spec_door_to_door", Name: "Door-to-Door Drive", Type: TypeSpecial, Influence: 0, CampaignValue: 3000, Rarity: RarityCommon, Effect: Effect{Kind: EffectInfluenceDelta, Amount: 2}},
	{ID: "spec_endorsement", Name: "Newspaper Endorsement", Type: TypeSpecial, Influence: 0, CampaignValue: 4000, Rarity: RarityCommon, Effect: Effect{Kind: EffectInfluenceDelta, Amount: 2}},
	{ID: "spec_rally", Name: "Mass Rally", Type: TypeSpecial, Influence: 0, CampaignValue: 6000, Rarity: RarityRare, Effect: Effect{Kind: EffectMomentumBonus, MinMomentum: 4, MaxMomentum: 6, Amount: 4}},
	{ID: "spec_coalition_summit", Name: "Coalition Summit", Type: TypeSpecial, Influence: 0, CampaignValue: 5000, Rarity: RarityRare, Effect: Effect{Kind: EffectCoalitionBonus, Amount: 3}},
	{ID: "spec_town_hall", Name: "Town Hall", Type: TypeSpecial, Influence: 0, CampaignValue: 2000, Rarity: RarityCommon, Effect: Effect{Kind: EffectInfluenceDelta, Amount: 1}},
	{ID: "spec_policy_paper", Name: "Policy Paper", Type: TypeSpecial, Influence: 0, CampaignValue: 2000, Rarity: RarityCommon, Effect: Effect{Kind: EffectMomentumBonus, MinMomentum: 1, MaxMomentum: 3, Amount: 2}},
	{ID: "spec_war_chest", Name: "War Chest", Type: TypeSpecial, Influence: 0, CampaignValue: 7000, Rarity: RarityRare, Effect: Effect{Kind: EffectInfluenceDelta, Amount: 4}},

	// Traps
	{ID: "trap_leaked_memo", Name: "Leaked Memo", Type: TypeTrap, Influence: 0, CampaignValue: 4000, Rarity: RarityCommon, Effect: Effect{Kind: EffectSabotage, Amount: 2}},
	{ID: "trap_scandal_story", Name: "Scandal Story", Type: TypeTrap, Influence: 0, CampaignValue: 6000, Rarity: RarityRare, Effect: Effect{Kind: EffectSabotage, Amount: 3}},
	{ID: "trap_audit_demand", Name: "Audit Demand", Type: TypeTrap, Influence: 0, CampaignValue: 3000, Rarity: RarityCommon, Effect: Effect{Kind: EffectSabotage, Amount: 1}},
	{ID: "trap_smear_campaign", Name: "Smear Campaign", Type: TypeTrap, Influence: 0, CampaignValue: 7000, Rarity: RarityRare, Effect: Effect{Kind: EffectSabotage, Amount: 3}},

	// Bonus
	{ID: "bonus_volunteer_surge", Name: "Volunteer Surge", Type: TypeBonus, Influence: 0, CampaignValue: 2000, Rarity: RarityCommon, Effect: Effect{Kind: EffectInfluenceDelta, Amount: 1}},
	{ID: "bonus_late_donation", Name: "Late Donation", Type: TypeBonus, Influence: 0, CampaignValue: 3000, Rarity: RarityCommon, Effect: Effect{Kind: EffectInfluenceDelta, Amount: 2}},
	{ID: "bonus_favorable_poll", Name: "Favorable Poll", Type: TypeBonus, Influence: 0, CampaignValue: 2000, Rarity: RarityCommon, Effect: Effect{Kind: EffectMomentumBonus, MinMomentum: 3, MaxMomentum: 4, Amount: 2}},
	{ID: "bonus_unity_pledge", Name: "Unity Pledge", Type: TypeBonus, Influence: 0, CampaignValue: 4000, Rarity: RarityRare, Effect: Effect{Kind: EffectCoalitionBonus, Amount: 2}},
}
