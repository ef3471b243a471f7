/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package judge

// recommendationSystemPrompt instructs the judge to evaluate every check
// of the relevance + serendipity rubric individually before reporting
// scores, so the scorer can recompute and cross-check its arithmetic.
const recommendationSystemPrompt = `You are an expert evaluator assessing personalized food recommendations.

You MUST evaluate EVERY check individually and provide explicit reasoning for each decision. Do NOT skip checks or jump to conclusions.

# Dimension 1: Relevance & Format (20 points, normalized to 0-10)

1. check_1_primary_intent (+3): Does the dish or cuisine match the main idea in the query (flavor, vibe, mood)?
2. check_2_descriptive_traits (+2): Does the dish reflect ALL descriptive traits in the query (e.g., spicy AND cheesy)?
3. check_3_category_dietary (+2): Does the dish match the category or dietary label (e.g., healthy, keto, fast food)?
4. check_4_situational (+2): Is the dish suitable for the situation or use case (e.g., car, group, office)?
5. check_5_explicit_constraints (+2): Were explicit constraints (price, delivery time, allergy, group size) carried into the recommendation?
6. check_6_profile_dietary_gate (+1) - GATE CHECK: Does the dish respect the consumer's dietary preferences, allergies, religious restrictions, and lifestyle choices? A violation here is a gate violation: set is_gate_violation to true.
7. check_7_output_clarity (+2): Does the output directly suggest a cuisine or dish?
8. check_8_mainstream_availability (+2): Is the dish something you'd expect on a mainstream U.S. menu (not niche or invented)?
9. check_9_format_correctness (+2): Is the dish formatted correctly (no junk tokens, partial phrases, or cue errors)?
10. check_10_no_redundant_info (+1): No redundant cuisine prefixes when the dish name is self-explanatory ("kimchi jjigae", not "Korean kimchi jjigae").
11. check_11_no_vague_filler (+1): No vague modifiers or filler adjectives ("tacos", not "authentic tacos"; avoid "delicious", "amazing", "traditional").

relevance_format_score = (sum of earned points / 20) * 10

# Dimension 2: Serendipity Quality (10 points)

1. check_1_novelty_tier (graded, 0-5 points). Pick the tier that best describes the recommendation's novelty relative to the consumer's history:
   - Tier 6 (+5): completely new dish in a CONNECTED new cuisine (ramen -> Vietnamese spring rolls)
   - Tier 5 (+4): completely new dish in the SAME familiar cuisine (ramen -> tempura)
   - Tier 4 (+3): same/similar dish in a CONNECTED new cuisine (ramen -> pho)
   - Tier 3 (+2): similar dish in the SAME familiar cuisine (ramen -> udon)
   - Tier 2 (+1): SAME dish, variants only (tonkotsu ramen -> shoyu ramen)
   - Tier 1 (+0): completely new dish in a DISCONNECTED cuisine (ramen -> injera)
   Culinary connection groups: East Asian (Chinese/Japanese/Korean/Vietnamese/Thai), South/SE Asian (Indian/Pakistani/Thai), Mediterranean (Italian/Greek/Turkish/Middle Eastern), Latin American (Mexican/Central/South American), Western (American/British/French/German). Two cuisines are also connected if they share a flavor philosophy: spicy/bold, umami, fresh/herbaceous, rich/creamy, comfort.
2. check_2_low_discoverability (+1): Requires knowledge or bridges, not obvious from history.
3. check_3_familiar_ingredients_new_context (+1): Uses ingredients the consumer knows but in a new dish or cuisine. Default YES if unable to determine.
4. check_4_context_fit_while_novel (+1): Maintains the query intent AND is novel.
5. check_5_aha_moment (+1): Non-obvious but makes sense in hindsight.
6. check_6_creates_curiosity (+1): Personalized "I want to try this!" feel.

serendipity_score = sum of points (already 0-10)
weighted_score = relevance_format_score * 0.70 + serendipity_score * 0.30

# Output

Respond ONLY with valid JSON:
- relevance_format_checks: object keyed by check id, each with passed (boolean), points (number), reason (string); check_6 also carries is_gate_violation (boolean).
- serendipity_checks: object keyed by check id, each with passed (boolean), points (number), reason (string); check_1 also carries tier (number 1-6) and passed true when tier is 2 or higher.
- relevance_format_score, serendipity_score, weighted_score: numbers.
- relevance_format_reasoning, serendipity_reasoning, overall_reasoning: one sentence each.`

// recommendationUserPrompt binds one pair for the fuzzy-query rubric.
var recommendationUserPrompt = MustNewPrompt(`Evaluate this recommendation.

Query: {{query}}
Daypart: {{daypart}}

Consumer profile:
{{consumer_profile}}

Recommendation: {{recommendation}}

Evaluate every check and respond with the JSON object described in your instructions.`)

// intentSystemPrompt asks for the query's intent category.
const intentSystemPrompt = `You are an expert at classifying food query intents. Respond ONLY with valid JSON.`

// intentUserPrompt classifies a fuzzy query into one of the known intent
// categories.
var intentUserPrompt = MustNewPrompt(`Classify the intent category of this fuzzy food query.

Query: {{query}}

Classify into exactly ONE of these categories:

1. "Comfort / Craving / Emotional" - "need comfort food", "cozy meal", "self-care dinner"
2. "Flavor-Based (Taste / Texture)" - "spicy and cheesy", "grilled and crispy"
3. "Exploration / Novelty" - "try something new", "bored of my regulars", "hidden gem"
4. "Group / Occasion" - "family dinner", "snacks for game night"
5. "Dietary / Health-Driven" - "vegan dinner", "keto lunch", "healthy but filling"
6. "Functional / Ergonomic" - "easy to eat in car", "quick desk meal", "travels well"
7. "Generic / Vague / Underspecified" - "something good", "fun lunch idea"
8. "Popularity / Crowd-Pleaser" - "what's most popular", "safe pick"

Return ONLY valid JSON: {"intent_category": "<category name>"}`)

// storeSystemPrompt is shared by both structured store rubrics.
const storeSystemPrompt = `You are an expert evaluator for food delivery query/store relevance. Answer each rubric question with "Yes", "No", or "NA" exactly as instructed, and respond ONLY with valid JSON.`

// intentStoreUserPrompt is the Q1-Q9 rubric for fuzzy-intent store
// evaluation. Answers come back flat, keyed by criterion id.
var intentStoreUserPrompt = MustNewPrompt(`Evaluate this store recommendation for a fuzzy query.

Query: {{query}}

Consumer profile:
{{consumer_profile}}

Store:
{{store}}

Answer the following 9 questions with "Yes", "No", or "NA".

q1: Does the store's menu match at least one of the main ideas/details of the query? Always Yes or No, never NA.
q2: Does the store's menu cover ALL the details/modifiers in the query (e.g., spicy AND cheesy)?
q3: If the query includes a price limit, does the store meet it ($ or $$ for "cheap"/"affordable")? NA if no price mentioned.
q4: If the query mentions location ("near me", a specific place), is the store within 2 miles? NA if no location specified.
q5: For "fast"/"quick" queries, does the store deliver in 30 minutes or less? NA if no speed requirement.
q6: For "best"/"top-rated" queries, does the store have a rating of at least 4.7? NA if no quality requirement.
q7: If the query includes a dietary need (vegan, keto, GF), does the store have at least 2 entrees meeting it? NA if no dietary need.
q8: Does the store's menu align with the consumer's cuisine, flavor, and taste preferences? Always Yes or No, never NA.
q9: Does the store provide at least 2 main dishes that avoid the consumer's hard avoids? Always Yes or No, never NA.

Return ONLY valid JSON with exactly these keys:
{"q1": "Yes/No", "q2": "Yes/No/NA", "q3": "Yes/No/NA", "q4": "Yes/No/NA", "q5": "Yes/No/NA", "q6": "Yes/No/NA", "q7": "Yes/No/NA", "q8": "Yes/No", "q9": "Yes/No"}`)

// structuredStoreUserPrompt is the C1-C19 rubric for structured-query
// store evaluation.
var structuredStoreUserPrompt = MustNewPrompt(`Evaluate this store against a structured query.

Fuzzy query: {{query}}
Structured query: {{structured_query}}

Consumer profile:
{{consumer_profile}}

Store:
{{store}}

Answer the following 19 criteria with "Yes", "No", or "NA". Use NA when the query does not mention the aspect or the data is unavailable.

c1: Does the store serve the main dish or cuisine in the query?
c2: Is the dish/cuisine a primary focus (3 or more matching items on the menu)?
c3: Is the store's primary offering consistent with the consumer's profile?
c4: If the query has a dietary restriction, does the store meet it with a concrete dish?
c5: If the query names a store, is this an exact store match?
c6: If the query names a store, is this a similar store in the same cuisine?
c7: If the query mentions a flavor, does a dish carry that flavor?
c8: If the query mentions a preparation style, does a dish match it?
c9: If the query asks for large portions, do reviews or the menu support that?
c10: If the query is for a group, does the store offer large quantities?
c11: If the query names ingredients, does a dish contain them?
c12: If the query mentions location, is the store within 2 miles?
c13: If the query mentions speed, does the store meet the delivery time?
c14: If the query asks for quality, does the store have good ratings?
c15: If the query has a price requirement, does the store meet it?
c16: If the query mentions deals, does the store have relevant deals?
c17: Is the store open? NA only when open status is unknown.
c18: Does the store have a rating above 4.5? NA only when rating data is unavailable.
c19: Does the store contain at least one item matching EVERY modifier and main dish/cuisine in the query? Always Yes or No, never NA.

Return ONLY valid JSON with exactly the keys c1 through c19, each "Yes", "No", or "NA".`)
