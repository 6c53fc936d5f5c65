// Copyright 2026 BWI GmbH and Solution Arsenal contributors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"sort"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

func transferHostAliases(forms []HostAliasForm, path *field.Path) ([]corev1.HostAlias, *field.Error) {
	var aliases []corev1.HostAlias
	for i, a := range forms {
		p := path.Index(i)
		if a.Hostnames == "" {
			return nil, field.Required(p.Child("hostnames"), "hostname is required")
		}
		if a.IP == "" {
			return nil, field.Required(p.Child("ip"), "ip is required")
		}
		aliases = append(aliases, corev1.HostAlias{IP: a.IP, Hostnames: []string{a.Hostnames}})
	}
	return aliases, nil
}

// resolveHostAliases emits one form entry per hostname.
func resolveHostAliases(aliases []corev1.HostAlias) []HostAliasForm {
	forms := []HostAliasForm{}
	for _, a := range aliases {
		for _, h := range a.Hostnames {
			forms = append(forms, HostAliasForm{IP: a.IP, Hostnames: h})
		}
	}
	return forms
}

func transferNodeSelector(pairs []KeyValue, path *field.Path) (map[string]string, *field.Error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	selector := make(map[string]string, len(pairs))
	for i, kv := range pairs {
		if kv.Key == "" {
			return nil, field.Required(path.Index(i).Child("key"), "node selector key is required")
		}
		selector[kv.Key] = kv.Value
	}
	return selector, nil
}

// toPairs flattens a map into key-sorted pairs.
func toPairs(m map[string]string) []KeyValue {
	pairs := make([]KeyValue, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, KeyValue{Key: k, Value: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	return pairs
}

func transferAffinity(form *AffinityForm, path *field.Path) (*corev1.Affinity, *field.Error) {
	if len(form.NodeAffinity) == 0 && len(form.PodAffinity) == 0 && len(form.PodAntiAffinity) == 0 {
		return nil, nil
	}
	affinity := &corev1.Affinity{}

	if len(form.NodeAffinity) > 0 {
		term := corev1.NodeSelectorTerm{}
		for i, r := range form.NodeAffinity {
			p := path.Child("nodeAffinity").Index(i)
			if r.Key == "" {
				return nil, field.Required(p.Child("key"), "affinity key is required")
			}
			if r.Operator == "" {
				return nil, field.Required(p.Child("operator"), "affinity operator is required")
			}
			term.MatchExpressions = append(term.MatchExpressions, corev1.NodeSelectorRequirement{
				Key:      r.Key,
				Operator: corev1.NodeSelectorOperator(r.Operator),
				Values:   append([]string(nil), r.Values...),
			})
		}
		affinity.NodeAffinity = &corev1.NodeAffinity{
			RequiredDuringSchedulingIgnoredDuringExecution: &corev1.NodeSelector{
				NodeSelectorTerms: []corev1.NodeSelectorTerm{term},
			},
		}
	}

	if len(form.PodAffinity) > 0 {
		terms, ferr := transferPodAffinityTerms(form.PodAffinity, path.Child("podAffinity"))
		if ferr != nil {
			return nil, ferr
		}
		affinity.PodAffinity = &corev1.PodAffinity{RequiredDuringSchedulingIgnoredDuringExecution: terms}
	}
	if len(form.PodAntiAffinity) > 0 {
		terms, ferr := transferPodAffinityTerms(form.PodAntiAffinity, path.Child("podAntiAffinity"))
		if ferr != nil {
			return nil, ferr
		}
		affinity.PodAntiAffinity = &corev1.PodAntiAffinity{RequiredDuringSchedulingIgnoredDuringExecution: terms}
	}
	return affinity, nil
}

func transferPodAffinityTerms(rules []AffinityRule, path *field.Path) ([]corev1.PodAffinityTerm, *field.Error) {
	terms := make([]corev1.PodAffinityTerm, 0, len(rules))
	for i, r := range rules {
		p := path.Index(i)
		if r.Key == "" {
			return nil, field.Required(p.Child("key"), "affinity key is required")
		}
		if r.Operator == "" {
			return nil, field.Required(p.Child("operator"), "affinity operator is required")
		}
		if r.TopologyKey == "" {
			return nil, field.Required(p.Child("topologyKey"), "topology key is required")
		}
		terms = append(terms, corev1.PodAffinityTerm{
			LabelSelector: &metav1.LabelSelector{
				MatchExpressions: []metav1.LabelSelectorRequirement{{
					Key:      r.Key,
					Operator: metav1.LabelSelectorOperator(r.Operator),
					Values:   append([]string(nil), r.Values...),
				}},
			},
			TopologyKey: r.TopologyKey,
		})
	}
	return terms, nil
}

// resolveAffinity flattens the required terms of an affinity. Preferred terms
// have no form representation and are dropped.
func resolveAffinity(affinity *corev1.Affinity) AffinityForm {
	form := AffinityForm{
		NodeAffinity:    []AffinityRule{},
		PodAffinity:     []AffinityRule{},
		PodAntiAffinity: []AffinityRule{},
	}
	if affinity == nil {
		return form
	}
	if na := affinity.NodeAffinity; na != nil && na.RequiredDuringSchedulingIgnoredDuringExecution != nil {
		for _, term := range na.RequiredDuringSchedulingIgnoredDuringExecution.NodeSelectorTerms {
			for _, e := range term.MatchExpressions {
				form.NodeAffinity = append(form.NodeAffinity, AffinityRule{
					Key:      e.Key,
					Operator: string(e.Operator),
					Values:   append([]string(nil), e.Values...),
				})
			}
		}
	}
	if pa := affinity.PodAffinity; pa != nil {
		form.PodAffinity = resolvePodAffinityTerms(pa.RequiredDuringSchedulingIgnoredDuringExecution)
	}
	if pa := affinity.PodAntiAffinity; pa != nil {
		form.PodAntiAffinity = resolvePodAffinityTerms(pa.RequiredDuringSchedulingIgnoredDuringExecution)
	}
	return form
}

func resolvePodAffinityTerms(terms []corev1.PodAffinityTerm) []AffinityRule {
	rules := []AffinityRule{}
	for _, term := range terms {
		if term.LabelSelector == nil {
			continue
		}
		for _, e := range term.LabelSelector.MatchExpressions {
			rules = append(rules, AffinityRule{
				Key:         e.Key,
				Operator:    string(e.Operator),
				Values:      append([]string(nil), e.Values...),
				TopologyKey: term.TopologyKey,
			})
		}
	}
	return rules
}
